//go:build !production

package environment

// BuildTarget is the target this binary was compiled for. Build with
// -tags production to select the production record.
const BuildTarget = Development
