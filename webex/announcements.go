package webex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// OrganizationLevel is the level of announcements uploaded to the organisation repository.
const OrganizationLevel = "ORGANIZATION"

// Media types by file extension.
var mediaFileTypes = map[string]struct {
	mediaType   string
	contentType string
}{
	".wav": {mediaType: "WAV", contentType: "audio/wav"},
	".wma": {mediaType: "WMA", contentType: "audio/x-ms-wma"},
	".3gp": {mediaType: "3GP", contentType: "audio/3gpp"},
}

// Announcement is an audio file in the announcement repository.
type Announcement struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	FileName      string `json:"fileName"`
	FileSize      string `json:"fileSize,omitempty"`
	MediaFileType string `json:"mediaFileType"`
	Level         string `json:"level"`
}

// AudioFile returns the reference to the announcement used in Auto Attendant menus.
func (a *Announcement) AudioFile() *AudioFile {
	level := a.Level
	if level == "" {
		level = OrganizationLevel
	}
	return &AudioFile{
		ID:            a.ID,
		FileName:      a.FileName,
		MediaFileType: a.MediaFileType,
		Level:         level,
	}
}

type announcementPage struct {
	Announcements []Announcement `json:"announcements"`
}

// MediaFileType returns the announcement media type for the file at path, based on its extension.
func MediaFileType(path string) (string, error) {
	media, ok := mediaFileTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", NewUnsupportedMediaError(path)
	}
	return media.mediaType, nil
}

// ListAnnouncements returns the announcements in the organisation level repository.
func (c *Client) ListAnnouncements(ctx context.Context) ([]Announcement, error) {
	var announcements []Announcement

	query := url.Values{"max": {strconv.Itoa(pageSize)}}
	err := listAll(ctx, c, c.endpoint("telephony/config/announcements", query), func(page *announcementPage) int {
		announcements = append(announcements, page.Announcements...)
		return len(page.Announcements)
	})
	if err != nil {
		return nil, err
	}

	return announcements, nil
}

// UploadAnnouncement uploads the audio file at path to the organisation level announcement repository.
// The announcement is named after the file's base name.
func (c *Client) UploadAnnouncement(ctx context.Context, path string) (*Announcement, error) {
	fileName := filepath.Base(path)

	media, ok := mediaFileTypes[strings.ToLower(filepath.Ext(fileName))]
	if !ok {
		return nil, NewUnsupportedMediaError(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", NewReadFileError(path), err)
	}

	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	body, contentType, err := announcementForm(name, fileName, media.contentType, data)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		url:         c.endpoint("telephony/config/announcements", nil),
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.body, &created); err != nil {
		return nil, fmt.Errorf("%w: %w", errDecodeResponse, err)
	}
	if created.ID == "" {
		return nil, errNoAnnouncement
	}

	return &Announcement{
		ID:            created.ID,
		Name:          name,
		FileName:      fileName,
		MediaFileType: media.mediaType,
		Level:         OrganizationLevel,
	}, nil
}

// announcementForm builds the multipart body for an announcement upload.
func announcementForm(name, fileName, contentType string, data []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("name", name); err != nil {
		return nil, "", fmt.Errorf("%w: %w", errMultipart, err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", errMultipart, err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("%w: %w", errMultipart, err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("%w: %w", errMultipart, err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
