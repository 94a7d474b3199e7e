package deployment

import (
	"fmt"
	"strconv"

	"github.com/mitchellh/hashstructure/v2"
)

// Hash returns a stable hash of the spec, used to detect drift between a
// compiled resource and the spec it came from.
func (s *Spec) Hash() (string, error) {
	h, err := hashstructure.Hash(s, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("failed to hash deployment spec: %w", err)
	}
	return strconv.FormatUint(h, 16), nil
}
