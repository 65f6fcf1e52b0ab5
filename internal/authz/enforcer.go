// Package authz decides which session roles may call which API routes.
package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// RoleAnonymous is the subject for requests without a session.
const RoleAnonymous = "anonymous"

type Config struct {
	// PolicyPath overrides the embedded policy when the file exists.
	PolicyPath string
}

type Enforcer struct {
	log      *logger.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(log *logger.Logger, cfg Config) (*Enforcer, error) {
	if log == nil {
		log = logger.Nop()
	}
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}

	var e *casbin.SyncedEnforcer
	if p := strings.TrimSpace(cfg.PolicyPath); p != "" && fileExists(p) {
		e, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(p))
	} else {
		e, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadPolicy(e, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}
	return &Enforcer{log: log.With("component", "authz"), enforcer: e}, nil
}

func loadPolicy(e *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		switch {
		case parts[0] == "p" && len(parts) >= 4:
			if _, err := e.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("add policy %v: %w", parts[1:], err)
			}
		case parts[0] == "g" && len(parts) >= 3:
			if _, err := e.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("add grouping policy %v: %w", parts[1:], err)
			}
		}
	}
	return nil
}

// Allow reports whether role may call method on path. An empty role is anonymous.
func (e *Enforcer) Allow(role, path, method string) bool {
	if strings.TrimSpace(role) == "" {
		role = RoleAnonymous
	}
	ok, err := e.enforcer.Enforce(role, path, method)
	if err != nil {
		e.log.Error("authz enforcement failed", "role", role, "path", path, "method", method, "error", err)
		decisions.WithLabelValues(role, "error").Inc()
		return false
	}
	if ok {
		decisions.WithLabelValues(role, "allow").Inc()
	} else {
		decisions.WithLabelValues(role, "deny").Inc()
	}
	return ok
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
