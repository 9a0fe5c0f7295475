package greeting

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jim-barber-he/aa-greeting/config"
	"github.com/jim-barber-he/aa-greeting/webex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const menuJSON = `{"greeting":"DEFAULT","extensionEnabled":true,"keyConfigurations":[{"key":"0","action":"EXIT"}]}`

// fakeAPI records the calls made to it in order.
type fakeAPI struct {
	calls         []string
	locations     []webex.Location
	attendants    []webex.AutoAttendant
	announcements []webex.Announcement
	updates       map[string][]byte

	meErr      error
	uploadErr  error
	failDetail map[string]bool
	failUpdate map[string]bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		locations: []webex.Location{
			{ID: "l1", Name: "HQ"},
			{ID: "l2", Name: "location"},
		},
		attendants: []webex.AutoAttendant{
			{ID: "a1", Name: "Reception", LocationID: "l1"},
			{ID: "a2", Name: "Sales", LocationID: "l1"},
			{ID: "a3", Name: "Reception", LocationID: "l2"},
		},
		updates:    make(map[string][]byte),
		failDetail: make(map[string]bool),
		failUpdate: make(map[string]bool),
	}
}

func (f *fakeAPI) Me(context.Context) (*webex.Person, error) {
	f.calls = append(f.calls, "me")
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &webex.Person{ID: "p1", OrgID: "org1"}, nil
}

func (f *fakeAPI) ListLocations(context.Context) ([]webex.Location, error) {
	f.calls = append(f.calls, "locations")
	return f.locations, nil
}

func (f *fakeAPI) ListAutoAttendants(context.Context) ([]webex.AutoAttendant, error) {
	f.calls = append(f.calls, "autoAttendants")
	return f.attendants, nil
}

func (f *fakeAPI) ListAnnouncements(context.Context) ([]webex.Announcement, error) {
	f.calls = append(f.calls, "announcements")
	return f.announcements, nil
}

func (f *fakeAPI) UploadAnnouncement(_ context.Context, path string) (*webex.Announcement, error) {
	f.calls = append(f.calls, "upload")
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &webex.Announcement{
		ID:            "ann1",
		FileName:      filepath.Base(path),
		MediaFileType: "WAV",
		Level:         webex.OrganizationLevel,
	}, nil
}

func (f *fakeAPI) AutoAttendantDetails(_ context.Context, locationID, id string) (*webex.AutoAttendantConfig, error) {
	f.calls = append(f.calls, "details "+id)
	if f.failDetail[id] {
		return nil, &webex.APIError{Method: http.MethodGet, StatusCode: http.StatusNotFound, Body: "gone"}
	}
	return webex.NewAutoAttendantConfig(locationID, id,
		[]byte(`{"id":"`+id+`","businessHoursMenu":`+menuJSON+`,"afterHoursMenu":`+menuJSON+`}`))
}

func (f *fakeAPI) UpdateAutoAttendant(_ context.Context, _, id string, body []byte) error {
	f.calls = append(f.calls, "update "+id)
	if f.failUpdate[id] {
		return &webex.APIError{Method: http.MethodPut, StatusCode: http.StatusBadRequest, Body: "bad\nrequest"}
	}
	f.updates[id] = body
	return nil
}

// count returns the number of calls starting with prefix.
func (f *fakeAPI) count(prefix string) int {
	var n int
	for _, call := range f.calls {
		if strings.HasPrefix(call, prefix) {
			n++
		}
	}
	return n
}

func newRequest(t *testing.T, menu, greeting string, specs ...string) Request {
	t.Helper()

	kind, err := ParseMenu(menu)
	require.NoError(t, err)
	sel, err := ParseSelection(greeting)
	require.NoError(t, err)
	parsed, err := ParseSpecs(specs)
	require.NoError(t, err)

	return Request{Menu: kind, Selection: sel, Specs: parsed}
}

func sampleFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sample.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o600))
	return path
}

func TestRunDefaultGreetingEverywhere(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	report, err := NewUpdater(api, nil, Options{}).Run(context.Background(), newRequest(t, "business", "default", ".*"))
	require.NoError(t, err)

	assert.Zero(t, api.count("upload"))
	assert.Zero(t, api.count("announcements"))
	assert.Equal(t, 3, api.count("update"))
	assert.Zero(t, report.Failed())

	for _, id := range []string{"a1", "a2", "a3"} {
		body := api.updates[id]
		assert.Equal(t, "DEFAULT", gjson.GetBytes(body, "businessHoursMenu.greeting").String(), id)
		assert.False(t, gjson.GetBytes(body, "afterHoursMenu").Exists(), id)
	}
}

func TestRunCustomGreetingQualified(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	req := newRequest(t, "after_hours", sampleFile(t), "location:Reception")

	report, err := NewUpdater(api, nil, Options{}).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{"me", "locations", "autoAttendants", "upload", "details a3", "update a3"}, api.calls)
	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusUpdated, report.Results[0].Status)

	body := api.updates["a3"]
	assert.Equal(t, "CUSTOM", gjson.GetBytes(body, "afterHoursMenu.greeting").String())
	assert.Equal(t, "ann1", gjson.GetBytes(body, "afterHoursMenu.audioAnnouncementFile.id").String())
	assert.Equal(t, "sample.wav", gjson.GetBytes(body, "afterHoursMenu.audioAnnouncementFile.fileName").String())
	assert.Equal(t, "EXIT", gjson.GetBytes(body, "afterHoursMenu.keyConfigurations.0.action").String())
}

func TestRunUploadsOnceBeforeUpdates(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	_, err := NewUpdater(api, nil, Options{}).Run(context.Background(), newRequest(t, "business", sampleFile(t), "Reception", "Sales"))
	require.NoError(t, err)

	assert.Equal(t, 1, api.count("upload"))
	assert.Equal(t, 3, api.count("update"))

	upload := -1
	firstUpdate := -1
	for i, call := range api.calls {
		if call == "upload" {
			upload = i
		}
		if strings.HasPrefix(call, "update") && firstUpdate < 0 {
			firstUpdate = i
		}
	}
	assert.Less(t, upload, firstUpdate)
}

func TestRunFailedUpdateDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.failDetail["a1"] = true
	api.failUpdate["a2"] = true

	core, logs := observer.New(zap.DebugLevel)
	report, err := NewUpdater(api, zap.New(core), Options{}).Run(context.Background(), newRequest(t, "business", "default", ".*"))
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	assert.Equal(t, 2, report.Failed())
	assert.Contains(t, api.updates, "a3")

	statuses := map[string]Status{}
	for _, result := range report.Results {
		statuses[result.AutoAttendant.ID] = result.Status
		if result.Status == StatusFailed {
			assert.ErrorIs(t, result.Err, ErrUpdate)
			var apiErr *webex.APIError
			assert.ErrorAs(t, result.Err, &apiErr)
		}
	}
	assert.Equal(t, map[string]Status{"a1": StatusFailed, "a2": StatusFailed, "a3": StatusUpdated}, statuses)
	assert.Equal(t, 2, logs.FilterMessage("update failed").Len())

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf))
	assert.Contains(t, buf.String(), "ERROR")
	assert.Contains(t, buf.String(), "bad request")
}

func TestRunUploadFailureAborts(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.uploadErr = &webex.APIError{Method: http.MethodPost, StatusCode: http.StatusBadRequest, Body: "bad file"}

	_, err := NewUpdater(api, nil, Options{}).Run(context.Background(), newRequest(t, "business", sampleFile(t), ".*"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpload)
	assert.Zero(t, api.count("details"))
	assert.Zero(t, api.count("update"))
}

func TestRunNoMatch(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	core, logs := observer.New(zap.DebugLevel)

	_, err := NewUpdater(api, zap.New(core), Options{}).Run(context.Background(), newRequest(t, "business", sampleFile(t), "Support", "Nowhere:Reception"))
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Zero(t, api.count("upload"))

	warnings := logs.FilterLevelExact(zap.WarnLevel).All()
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0].Message, `no auto attendant matches "Support"`)
	assert.Contains(t, warnings[1].Message, `location not found: "Nowhere"`)
}

func TestRunPartialMatchWarns(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	core, logs := observer.New(zap.DebugLevel)

	report, err := NewUpdater(api, zap.New(core), Options{}).Run(context.Background(), newRequest(t, "business", "default", "Sales", "Support"))
	require.NoError(t, err)
	assert.Len(t, report.Results, 1)
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestRunInvalidToken(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.meErr = &webex.APIError{Method: http.MethodGet, StatusCode: http.StatusUnauthorized}

	_, err := NewUpdater(api, nil, Options{}).Run(context.Background(), newRequest(t, "business", "default", ".*"))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfig)
	assert.Contains(t, err.Error(), "invalid token")
	assert.Equal(t, []string{"me"}, api.calls)

	api = newFakeAPI()
	api.meErr = errors.New("connection refused")
	_, err = NewUpdater(api, nil, Options{}).Run(context.Background(), newRequest(t, "business", "default", ".*"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, config.ErrConfig)
}

func TestRunDryRun(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	report, err := NewUpdater(api, nil, Options{DryRun: true}).Run(context.Background(), newRequest(t, "after_hours", sampleFile(t), ".*"))
	require.NoError(t, err)

	assert.Zero(t, api.count("upload"))
	assert.Zero(t, api.count("update"))
	assert.Equal(t, 3, api.count("details"))
	for _, result := range report.Results {
		assert.Equal(t, StatusSkipped, result.Status)
	}
}

func TestUploadReuse(t *testing.T) {
	t.Parallel()

	path := sampleFile(t)
	sel, err := ParseSelection(path)
	require.NoError(t, err)

	t.Run("existing announcement", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI()
		api.announcements = []webex.Announcement{
			{ID: "other", FileName: "other.wav", MediaFileType: "WAV"},
			{ID: "existing", FileName: "sample.wav", MediaFileType: "WAV", Level: webex.OrganizationLevel},
		}

		file, err := NewUpdater(api, nil, Options{Reuse: true}).Upload(context.Background(), sel)
		require.NoError(t, err)
		assert.Equal(t, "existing", file.ID)
		assert.Equal(t, []string{"announcements"}, api.calls)
	})

	t.Run("nothing to reuse", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI()
		file, err := NewUpdater(api, nil, Options{Reuse: true}).Upload(context.Background(), sel)
		require.NoError(t, err)
		assert.Equal(t, "ann1", file.ID)
		assert.Equal(t, []string{"announcements", "upload"}, api.calls)
	})

	t.Run("default greeting", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI()
		file, err := NewUpdater(api, nil, Options{Reuse: true}).Upload(context.Background(), Selection{})
		require.NoError(t, err)
		assert.Nil(t, file)
		assert.Empty(t, api.calls)
	})
}
