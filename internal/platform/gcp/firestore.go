package gcp

import (
	"context"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

// NewFirestoreClient connects to the project from FIRESTORE_PROJECT_ID (or
// GOOGLE_CLOUD_PROJECT). With FIRESTORE_EMULATOR_HOST set the SDK talks to the
// emulator and credentials are not consulted.
func NewFirestoreClient(ctx context.Context, log *logger.Logger) (*firestore.Client, error) {
	projectID := ProjectIDFromEnv()
	if projectID == "" {
		return nil, fmt.Errorf("missing env var FIRESTORE_PROJECT_ID")
	}
	emulator := strings.TrimSpace(os.Getenv("FIRESTORE_EMULATOR_HOST"))

	var opts = ClientOptionsFromEnv()
	if emulator != "" {
		opts = nil
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	log.With("service", "Firestore").Info("Firestore initialized", "project_id", projectID, "emulator_host", emulator)
	return client, nil
}
