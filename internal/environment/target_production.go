//go:build production

package environment

// BuildTarget is the target this binary was compiled for.
const BuildTarget = Production
