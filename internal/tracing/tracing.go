// Package tracing wires optional Langfuse tracing for generation calls.
// Tracing is opt-in: it activates only when the Langfuse key pair is present
// in the environment, and the rest of the system never knows whether it is.
package tracing

import (
	"cmp"
	"os"

	"github.com/cloudwego/eino-ext/callbacks/langfuse"
	"github.com/cloudwego/eino/callbacks"
)

// defaultHost is the Langfuse endpoint assumed for a local deployment when
// LANGFUSE_HOST is unset.
const defaultHost = "http://localhost:3000"

// Setup builds the Langfuse callback handler from LANGFUSE_PUBLIC_KEY,
// LANGFUSE_SECRET_KEY, and LANGFUSE_HOST. When either key is missing it
// reports false and tracing stays off. The returned flush function must run
// before process exit so buffered traces are delivered.
func Setup() (callbacks.Handler, func(), bool) {
	public := os.Getenv("LANGFUSE_PUBLIC_KEY")
	secret := os.Getenv("LANGFUSE_SECRET_KEY")
	if public == "" || secret == "" {
		return nil, nil, false
	}

	handler, flush := langfuse.NewLangfuseHandler(&langfuse.Config{
		Host:      cmp.Or(os.Getenv("LANGFUSE_HOST"), defaultHost),
		PublicKey: public,
		SecretKey: secret,
	})
	return handler, flush, true
}
