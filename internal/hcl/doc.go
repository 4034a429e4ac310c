// Package hcl provides the concrete HCL implementation of the pipeline
// loading interface defined in the `config` package. It is responsible for
// file discovery, parsing, and HCL-to-model translation. Step commands are
// kept as unevaluated expressions so run variables are substituted at
// execution time, not at load time.
package hcl
