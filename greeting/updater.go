package greeting

import (
	"context"
	"fmt"

	"github.com/jim-barber-he/aa-greeting/webex"
	"go.uber.org/zap"
)

// API is the part of the Webex API the Updater needs. *webex.Client implements it.
type API interface {
	Me(ctx context.Context) (*webex.Person, error)
	ListLocations(ctx context.Context) ([]webex.Location, error)
	ListAutoAttendants(ctx context.Context) ([]webex.AutoAttendant, error)
	ListAnnouncements(ctx context.Context) ([]webex.Announcement, error)
	UploadAnnouncement(ctx context.Context, path string) (*webex.Announcement, error)
	AutoAttendantDetails(ctx context.Context, locationID, id string) (*webex.AutoAttendantConfig, error)
	UpdateAutoAttendant(ctx context.Context, locationID, id string, body []byte) error
}

// Options changes how the Updater applies changes.
type Options struct {
	// DryRun reads everything but neither uploads nor updates.
	DryRun bool
	// Reuse an announcement with the same file name instead of uploading the file again.
	Reuse bool
}

// Request is a single run of the Updater.
type Request struct {
	Menu      webex.MenuKind
	Selection Selection
	Specs     []NameSpec
}

// Updater sets Auto Attendant greetings.
type Updater struct {
	api  API
	log  *zap.Logger
	opts Options
}

// NewUpdater returns an Updater using api. A nil logger discards output.
func NewUpdater(api API, logger *zap.Logger, opts Options) *Updater {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Updater{api: api, log: logger, opts: opts}
}

// Run resolves the name specs, uploads the greeting if needed, and updates each matched Auto Attendant.
// Only failures that stop the whole run are returned; per Auto Attendant failures are in the Report.
func (u *Updater) Run(ctx context.Context, req Request) (*Report, error) {
	me, err := u.api.Me(ctx)
	if err != nil {
		if webex.IsUnauthorized(err) {
			return nil, errInvalidToken
		}
		return nil, fmt.Errorf("%w: %w", errWhoAmI, err)
	}
	u.log.Debug("authenticated", zap.String("user", me.DisplayName), zap.String("orgId", me.OrgID))

	locations, err := u.api.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errListLocations, err)
	}

	attendants, err := u.api.ListAutoAttendants(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errListAttendants, err)
	}

	res := Resolve(req.Specs, locations, attendants)
	for _, warning := range res.Unmatched {
		u.log.Warn(warning.Error(), zap.String("spec", warning.Spec.Raw))
	}
	if len(res.Targets) == 0 {
		return nil, ErrNoMatch
	}

	for _, aa := range res.Targets {
		u.log.Info("selected", zap.String("autoAttendant", displayName(aa)))
	}

	file, err := u.Upload(ctx, req.Selection)
	if err != nil {
		return nil, err
	}

	return &Report{Results: u.Apply(ctx, res.Targets, req.Menu, req.Selection.Greeting(), file)}, nil
}

// Upload makes the custom greeting available as an announcement and returns the reference to put in the menus.
// It returns nil for the default greeting without calling the API.
func (u *Updater) Upload(ctx context.Context, sel Selection) (*webex.AudioFile, error) {
	if sel.IsDefault() {
		return nil, nil
	}

	log := u.log.With(zap.String("file", sel.Path))

	if u.opts.Reuse {
		existing, err := u.findAnnouncement(ctx, sel.FileName())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUpload, err)
		}
		if existing != nil {
			log.Info("greeting already uploaded", zap.String("announcementId", existing.ID))
			return existing.AudioFile(), nil
		}
	}

	if u.opts.DryRun {
		log.Info("skipped: upload greeting")
		return &webex.AudioFile{
			FileName:      sel.FileName(),
			MediaFileType: sel.MediaFileType,
			Level:         webex.OrganizationLevel,
		}, nil
	}

	announcement, err := u.api.UploadAnnouncement(ctx, sel.Path)
	if err != nil {
		log.Error("upload failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUpload, err)
	}
	log.Info("uploaded greeting", zap.String("announcementId", announcement.ID))

	return announcement.AudioFile(), nil
}

// findAnnouncement returns the organisation announcement with the given file name, or nil if there is none.
func (u *Updater) findAnnouncement(ctx context.Context, fileName string) (*webex.Announcement, error) {
	announcements, err := u.api.ListAnnouncements(ctx)
	if err != nil {
		return nil, err
	}
	for i := range announcements {
		if announcements[i].FileName == fileName {
			return &announcements[i], nil
		}
	}
	return nil, nil
}

// Apply sets the greeting of the menu on each Auto Attendant in turn.
// A failure is recorded in that Auto Attendant's Result and the remaining ones are still processed.
func (u *Updater) Apply(
	ctx context.Context, targets []webex.AutoAttendant, menu webex.MenuKind, greeting webex.Greeting,
	file *webex.AudioFile,
) []Result {
	results := make([]Result, 0, len(targets))

	for _, aa := range targets {
		result := u.applyOne(ctx, aa, menu, greeting, file)
		results = append(results, result)
	}

	return results
}

func (u *Updater) applyOne(
	ctx context.Context, aa webex.AutoAttendant, menu webex.MenuKind, greeting webex.Greeting,
	file *webex.AudioFile,
) Result {
	log := u.log.With(zap.String("autoAttendant", displayName(aa)), zap.String("menu", string(menu)))

	fail := func(err error) Result {
		err = fmt.Errorf("%w: %s: %w", ErrUpdate, displayName(aa), err)
		log.Error("update failed", zap.Error(err))
		return Result{AutoAttendant: aa, Status: StatusFailed, Err: err}
	}

	cfg, err := u.api.AutoAttendantDetails(ctx, aa.LocationID, aa.ID)
	if err != nil {
		return fail(err)
	}

	current, err := cfg.Menu(menu)
	if err != nil {
		return fail(err)
	}
	log.Debug("got details", zap.String("greeting", string(current.Greeting)))

	body, err := cfg.MenuUpdate(menu, greeting, file)
	if err != nil {
		return fail(err)
	}

	if u.opts.DryRun {
		log.Info("skipped: update", zap.ByteString("update", body))
		return Result{AutoAttendant: aa, Status: StatusSkipped}
	}

	if err := u.api.UpdateAutoAttendant(ctx, aa.LocationID, aa.ID, body); err != nil {
		return fail(err)
	}
	log.Info("updated settings", zap.String("greeting", string(greeting)))

	return Result{AutoAttendant: aa, Status: StatusUpdated}
}
