package aspic

import "github.com/Masterminds/semver/v3"

// APIVersion is the current semantic version of this package's public
// API, replacing the teacher's hand-rolled Sscanf-based version parser
// with real semver parsing/comparison.
var APIVersion = semver.MustParse("0.1.0")

// CheckAPIVersion reports whether required (a semver constraint, e.g.
// "^0.1.0") is satisfied by APIVersion.
func CheckAPIVersion(required string) (bool, error) {
	c, err := semver.NewConstraint(required)
	if err != nil {
		return false, err
	}
	return c.Check(APIVersion), nil
}
