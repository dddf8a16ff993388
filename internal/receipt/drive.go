package receipt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
)

// DriveResolver uploads the image to a fixed Google Drive folder and
// returns the file's public view link.
type DriveResolver struct {
	svc      *gdrive.Service
	folderID string
	maxBytes int64
	now      func() time.Time
}

var _ Resolver = (*DriveResolver)(nil)

// NewDriveResolverFromEnv creates a Drive resolver using Service Account
// credentials from the environment.
// Required: GOOGLE_DRIVE_FOLDER_ID and one of GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
// A missing variable is a startup failure naming that variable.
func NewDriveResolverFromEnv(ctx context.Context, maxBytes int64) (*DriveResolver, error) {
	folderID := strings.TrimSpace(os.Getenv("GOOGLE_DRIVE_FOLDER_ID"))
	if folderID == "" {
		return nil, errors.New("missing GOOGLE_DRIVE_FOLDER_ID")
	}

	credentialsJSON, err := serviceAccountJSON(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := gdrive.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gdrive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &DriveResolver{svc: svc, folderID: folderID, maxBytes: maxBytes, now: time.Now}, nil
}

// serviceAccountJSON loads Service Account credentials the same way for
// every Google client in this module.
func serviceAccountJSON(ctx context.Context) ([]byte, error) {
	inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		credentials, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.InfoContext(ctx, "Read service account credentials", "path", file, "size", len(credentials))
		return credentials, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

func (r *DriveResolver) Resolve(ctx context.Context, up Upload) (string, error) {
	if err := checkPayload(up, r.maxBytes); err != nil {
		return "", err
	}

	name := r.now().Format("20060102-150405") + "-" + safeFilename(up.Filename)
	meta := &gdrive.File{
		Name:    name,
		Parents: []string{r.folderID},
	}

	var media []googleapi.MediaOption
	if up.MIME != "" {
		media = append(media, googleapi.ContentType(up.MIME))
	}

	f, err := r.svc.Files.Create(meta).
		Media(bytes.NewReader(up.Data), media...).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	slog.InfoContext(ctx, "Receipt uploaded to Drive",
		"file_id", f.Id,
		"name", name,
		"bytes", len(up.Data))

	if f.WebViewLink != "" {
		return f.WebViewLink, nil
	}
	return "https://drive.google.com/file/d/" + f.Id + "/view", nil
}

// safeFilename strips path separators and control characters from a
// client-supplied filename.
func safeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "receipt"
	}
	name = strings.Map(func(c rune) rune {
		switch {
		case c == '/' || c == '\\':
			return '-'
		case c < 32:
			return -1
		}
		return c
	}, name)
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return name
}
