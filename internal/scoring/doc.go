// Package scoring converts extracted article metadata into a reproducible
// point total using a fixed rubric. The extraction model only ever supplies
// the boolean and categorical facts; the points themselves are computed
// here so two runs over the same metadata always rank identically.
package scoring
