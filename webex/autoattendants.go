package webex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// MenuKind names one of the two menus of an Auto Attendant as the API calls it.
type MenuKind string

const (
	// BusinessHoursMenu is played during business hours.
	BusinessHoursMenu MenuKind = "businessHoursMenu"
	// AfterHoursMenu is played outside business hours.
	AfterHoursMenu MenuKind = "afterHoursMenu"
)

func (k MenuKind) valid() bool {
	return k == BusinessHoursMenu || k == AfterHoursMenu
}

// Greeting selects the system default greeting or a custom announcement.
type Greeting string

const (
	GreetingDefault Greeting = "DEFAULT"
	GreetingCustom  Greeting = "CUSTOM"
)

// AudioFile references an announcement from a menu.
type AudioFile struct {
	ID            string `json:"id,omitempty"`
	FileName      string `json:"fileName"`
	MediaFileType string `json:"mediaFileType"`
	Level         string `json:"level,omitempty"`
}

// Menu is the greeting part of an Auto Attendant menu.
type Menu struct {
	Greeting  Greeting
	AudioFile *AudioFile
}

// AutoAttendant is an entry of the Auto Attendant list.
type AutoAttendant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LocationID   string `json:"locationId"`
	LocationName string `json:"locationName"`
	Extension    string `json:"extension,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

type autoAttendantPage struct {
	AutoAttendants []AutoAttendant `json:"autoAttendants"`
}

// AutoAttendantConfig is the full configuration of an Auto Attendant as returned by the details call.
// The raw document is kept so that an update only touches the greeting of one menu.
type AutoAttendantConfig struct {
	ID         string
	Name       string
	LocationID string
	raw        []byte
}

// NewAutoAttendantConfig wraps the JSON document returned by the details call.
func NewAutoAttendantConfig(locationID, id string, raw []byte) (*AutoAttendantConfig, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: invalid JSON", errDecodeResponse)
	}

	return &AutoAttendantConfig{
		ID:         id,
		Name:       gjson.GetBytes(raw, "name").String(),
		LocationID: locationID,
		raw:        raw,
	}, nil
}

// Menu returns the greeting settings of the given menu.
func (c *AutoAttendantConfig) Menu(kind MenuKind) (Menu, error) {
	if !kind.valid() {
		return Menu{}, fmt.Errorf("%w: %s", errUnknownMenu, kind)
	}

	menu := Menu{Greeting: Greeting(gjson.GetBytes(c.raw, string(kind)+".greeting").String())}

	if file := gjson.GetBytes(c.raw, string(kind)+".audioAnnouncementFile"); file.IsObject() {
		var audio AudioFile
		if err := json.Unmarshal([]byte(file.Raw), &audio); err != nil {
			return Menu{}, fmt.Errorf("%w: %w", errDecodeResponse, err)
		}
		menu.AudioFile = &audio
	}

	return menu, nil
}

// MenuUpdate returns an update request body that sets the greeting of the given menu.
// The rest of the menu, such as its key configuration, is carried over unchanged.
// When file is nil the menu keeps whatever announcement it references.
func (c *AutoAttendantConfig) MenuUpdate(kind MenuKind, greeting Greeting, file *AudioFile) ([]byte, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("%w: %s", errUnknownMenu, kind)
	}

	menu := []byte("{}")
	if current := gjson.GetBytes(c.raw, string(kind)); current.IsObject() {
		menu = []byte(current.Raw)
	}

	menu, err := sjson.SetBytes(menu, "greeting", string(greeting))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errEditConfig, err)
	}

	if file != nil {
		audio, err := json.Marshal(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errEditConfig, err)
		}
		menu, err = sjson.SetRawBytes(menu, "audioAnnouncementFile", audio)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errEditConfig, err)
		}
	}

	body, err := sjson.SetRawBytes([]byte("{}"), string(kind), menu)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errEditConfig, err)
	}

	return body, nil
}

// ListAutoAttendants returns every Auto Attendant of the organisation.
func (c *Client) ListAutoAttendants(ctx context.Context) ([]AutoAttendant, error) {
	var attendants []AutoAttendant

	query := url.Values{"max": {strconv.Itoa(pageSize)}}
	err := listAll(ctx, c, c.endpoint("telephony/config/autoAttendants", query), func(page *autoAttendantPage) int {
		attendants = append(attendants, page.AutoAttendants...)
		return len(page.AutoAttendants)
	})
	if err != nil {
		return nil, err
	}

	return attendants, nil
}

func (c *Client) autoAttendantURL(locationID, id string) (string, error) {
	if locationID == "" {
		return "", fmt.Errorf("%w: %s", errMissingLocation, id)
	}
	return c.endpoint(fmt.Sprintf(
		"telephony/config/locations/%s/autoAttendants/%s", url.PathEscape(locationID), url.PathEscape(id),
	), nil), nil
}

// AutoAttendantDetails fetches the full configuration of an Auto Attendant.
func (c *Client) AutoAttendantDetails(ctx context.Context, locationID, id string) (*AutoAttendantConfig, error) {
	u, err := c.autoAttendantURL(locationID, id)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, request{method: http.MethodGet, url: u})
	if err != nil {
		return nil, err
	}

	cfg, err := NewAutoAttendantConfig(locationID, id, resp.body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, u)
	}

	return cfg, nil
}

// UpdateAutoAttendant sends an update built by AutoAttendantConfig.MenuUpdate.
func (c *Client) UpdateAutoAttendant(ctx context.Context, locationID, id string, body []byte) error {
	u, err := c.autoAttendantURL(locationID, id)
	if err != nil {
		return err
	}

	_, err = c.do(ctx, request{method: http.MethodPut, url: u, body: body, contentType: "application/json"})
	return err
}
