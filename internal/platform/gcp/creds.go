package gcp

import (
	"strings"

	"google.golang.org/api/option"

	"github.com/yungbote/framevault-backend/internal/platform/envutil"
)

const userAgent = "framevault-backend"

// CredentialSource describes where service-account credentials come from.
type CredentialSource int

const (
	CredentialsDefault CredentialSource = iota // application default credentials
	CredentialsInlineJSON
	CredentialsFile
)

// credentialsFromEnv prefers inline JSON, then a key file path. Either env var
// may hold either form; a leading "{" marks inline JSON.
func credentialsFromEnv() (CredentialSource, string) {
	creds := envutil.String("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
	if creds == "" {
		creds = envutil.String("GOOGLE_APPLICATION_CREDENTIALS", "")
	}
	switch {
	case creds == "":
		return CredentialsDefault, ""
	case strings.HasPrefix(creds, "{"):
		return CredentialsInlineJSON, creds
	default:
		return CredentialsFile, creds
	}
}

// ClientOptionsFromEnv is shared by the storage, firestore, vision and video clients.
func ClientOptionsFromEnv() []option.ClientOption {
	opts := []option.ClientOption{option.WithUserAgent(userAgent)}
	switch src, v := credentialsFromEnv(); src {
	case CredentialsInlineJSON:
		opts = append(opts, option.WithCredentialsJSON([]byte(v)))
	case CredentialsFile:
		opts = append(opts, option.WithCredentialsFile(v))
	}
	return opts
}

// ProjectIDFromEnv resolves the Firestore project.
func ProjectIDFromEnv() string {
	for _, key := range []string{"FIRESTORE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT", "GCLOUD_PROJECT"} {
		if v := envutil.String(key, ""); v != "" {
			return v
		}
	}
	return ""
}
