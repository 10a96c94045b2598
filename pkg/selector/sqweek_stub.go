//go:build !sqweek

package selector

import "fmt"

func newSqweek() (Backend, error) {
	return nil, fmt.Errorf("%w: binary built without the sqweek tag", ErrUnavailable)
}
