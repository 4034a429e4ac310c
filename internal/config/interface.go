package config

import "context"

// Loader turns a definition source (a file or a directory of files) into the
// format-agnostic pipeline model. The HCL implementation lives in the
// internal/hcl package.
type Loader interface {
	Load(ctx context.Context, path string) (*Pipeline, error)
}
