package google

import (
	"context"
	"fmt"
	"strings"

	gdrive "google.golang.org/api/drive/v3"
	goption "google.golang.org/api/option"
)

// resolveSpreadsheetID looks up a spreadsheet by name through the Drive
// API. Name selection is a convenience for interactive use; automation
// should pin the id.
func resolveSpreadsheetID(ctx context.Context, name string) (string, error) {
	credentialsJSON, err := loadCredentials(ctx)
	if err != nil {
		return "", err
	}
	svc, err := gdrive.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gdrive.DriveReadonlyScope))
	if err != nil {
		return "", fmt.Errorf("create drive service: %w", err)
	}

	query := fmt.Sprintf(
		"name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`))
	list, err := svc.Files.List().Q(query).Fields("files(id, name)").PageSize(2).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("list spreadsheets: %w", err)
	}
	switch len(list.Files) {
	case 0:
		return "", fmt.Errorf("no spreadsheet named %q", name)
	case 1:
		return list.Files[0].Id, nil
	default:
		return "", fmt.Errorf("spreadsheet name %q is ambiguous", name)
	}
}
