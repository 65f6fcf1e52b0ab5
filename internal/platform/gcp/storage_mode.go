package gcp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/framevault-backend/internal/platform/envutil"
)

type StorageMode string

const (
	StorageModeGCS      StorageMode = "gcs"
	StorageModeEmulator StorageMode = "gcs_emulator"
)

var (
	ErrInvalidStorageMode   = errors.New("invalid OBJECT_STORAGE_MODE")
	ErrMissingBucket        = errors.New("missing GCS_BUCKET_NAME")
	ErrMissingEmulatorHost  = errors.New("emulator mode requires STORAGE_EMULATOR_HOST")
	ErrInvalidEmulatorHost  = errors.New("invalid STORAGE_EMULATOR_HOST")
	ErrInvalidPublicBaseURL = errors.New("invalid OBJECT_STORAGE_PUBLIC_BASE_URL")
)

// StorageConfig says where media objects live and how their public URLs are built.
type StorageConfig struct {
	Mode         StorageMode
	Bucket       string
	EmulatorHost string
	CDNDomain    string
	// PublicBaseURL overrides the host in public object URLs (local proxies, emulators).
	PublicBaseURL string
	// Inferred is set when emulator mode came from STORAGE_EMULATOR_HOST alone.
	Inferred bool
}

func (c StorageConfig) IsEmulator() bool { return c.Mode == StorageModeEmulator }

// PublicBase is the URL prefix for public objects; empty means storage.googleapis.com
// or the CDN domain.
func (c StorageConfig) PublicBase() string {
	if c.PublicBaseURL != "" {
		return c.PublicBaseURL
	}
	if c.IsEmulator() {
		return c.EmulatorHost
	}
	return ""
}

func StorageConfigFromEnv() (StorageConfig, error) {
	c := StorageConfig{
		Bucket:        envutil.String("GCS_BUCKET_NAME", ""),
		EmulatorHost:  strings.TrimRight(envutil.String("STORAGE_EMULATOR_HOST", ""), "/"),
		CDNDomain:     envutil.String("GCS_CDN_DOMAIN", ""),
		PublicBaseURL: strings.TrimRight(envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", ""), "/"),
	}
	raw := envutil.String("OBJECT_STORAGE_MODE", "")
	switch mode := StorageMode(strings.ToLower(raw)); mode {
	case "":
		c.Mode = StorageModeGCS
		if c.EmulatorHost != "" {
			c.Mode, c.Inferred = StorageModeEmulator, true
		}
	case StorageModeGCS, StorageModeEmulator:
		c.Mode = mode
	default:
		return c, fmt.Errorf("%w: %q (allowed: %q, %q)", ErrInvalidStorageMode, raw, StorageModeGCS, StorageModeEmulator)
	}
	return c, c.Validate()
}

func (c StorageConfig) Validate() error {
	if c.Mode != StorageModeGCS && c.Mode != StorageModeEmulator {
		return fmt.Errorf("%w: %q", ErrInvalidStorageMode, c.Mode)
	}
	if c.Bucket == "" {
		return ErrMissingBucket
	}
	if c.PublicBaseURL != "" && !isAbsoluteURL(c.PublicBaseURL) {
		return fmt.Errorf("%w: %q; expected an absolute URL like http://localhost:4443", ErrInvalidPublicBaseURL, c.PublicBaseURL)
	}
	if !c.IsEmulator() {
		return nil
	}
	if c.EmulatorHost == "" {
		return ErrMissingEmulatorHost
	}
	if !isAbsoluteURL(c.EmulatorHost) {
		return fmt.Errorf("%w: %q; expected an absolute URL like http://fake-gcs:4443", ErrInvalidEmulatorHost, c.EmulatorHost)
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
