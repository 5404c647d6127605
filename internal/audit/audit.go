// Package audit writes one structured log entry per CLI invocation: the
// command, the resolved config file, and the operational environment.
// Secret-valued variables are reduced to "set"/"unset" before logging.
package audit

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// auditEntry names one environment variable recorded in every audit entry.
// secret entries never log their value, only whether one is present.
type auditEntry struct {
	key    string
	secret bool
}

// auditKeys is the ordered environment surface of the service. This is the
// single source of truth for which keys are secret.
var auditKeys = []auditEntry{
	{"MODEL_PROVIDER", false},
	{"GENERATION_MODEL", false},
	{"GENERATION_FALLBACK_MODEL", false},
	{"GROQ_API_KEY", true},
	{"OLLAMA_HOST", false},
	{"OLLAMA_MODEL", false},
	{"OPENAI_API_KEY", true},
	{"OPENAI_MODEL", false},
	{"AZURE_OPENAI_API_KEY", true},
	{"AZURE_OPENAI_ENDPOINT", false},
	{"AZURE_OPENAI_DEPLOYMENT", false},
	{"ARK_API_KEY", true},
	{"ARK_MODEL", false},
	{"GOOGLE_API_KEY", true},
	{"GEMINI_MODEL", false},
	{"EMBEDDING_PROVIDER", false},
	{"EMBEDDING_MODEL", false},
	{"EMBEDDING_API_KEY", true},
	{"QDRANT_HOST", false},
	{"QDRANT_PORT", false},
	{"QDRANT_COLLECTION", false},
	{"QDRANT_API_KEY", true},
	{"RETRIEVAL_TOP_K", false},
	{"CHUNK_SIZE", false},
	{"CHUNK_OVERLAP", false},
	{"PAPERLENS_API_KEY", true},
	{"PAPERLENS_CATALOG_DB", false},
	{"LOG_LEVEL", false},
	{"LOG_FORMAT", false},
	{"LANGFUSE_PUBLIC_KEY", true},
	{"LANGFUSE_SECRET_KEY", true},
}

// secretEnvKeys is derived from auditKeys so the two can never disagree.
var secretEnvKeys = func() map[string]bool {
	m := make(map[string]bool, len(auditKeys))
	for _, e := range auditKeys {
		if e.secret {
			m[e.key] = true
		}
	}
	return m
}()

// LogCommandStart records the start of a CLI command: its name, where config
// came from, and the sanitised environment.
func LogCommandStart(log *slog.Logger, command string, configPath string) {
	attrs := make([]slog.Attr, 0, len(auditKeys)+2)
	attrs = append(attrs,
		slog.String("command", command),
		slog.String("config_file", sanitiseConfigPath(configPath)),
	)
	for _, e := range auditKeys {
		attrs = append(attrs, slog.String(e.key, SanitiseKey(e.key, os.Getenv(e.key))))
	}

	log.LogAttrs(context.TODO(), slog.LevelInfo, "audit: command start", attrs...)
}

// SanitiseKey returns a log-safe rendering of an env var: the literal value
// for ordinary keys, "set"/"unset" for secret keys, "unset" for empty.
func SanitiseKey(key, value string) string {
	if secretEnvKeys[key] {
		return presence(value)
	}
	if value == "" {
		return "unset"
	}
	return value
}

func presence(v string) string {
	if v == "" {
		return "unset"
	}
	return "set"
}

// sanitiseConfigPath renders the config source for the log: "none" when no
// file was loaded, and with the home directory collapsed to "~".
func sanitiseConfigPath(p string) string {
	if p == "" {
		return "none"
	}
	if home, err := os.UserHomeDir(); err == nil {
		if rest, ok := strings.CutPrefix(p, home); ok {
			return "~" + rest
		}
	}
	return p
}
