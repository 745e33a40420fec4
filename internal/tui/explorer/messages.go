package explorer

import (
	"github.com/msto63/vera/foundation/vera"
)

// parsedMsg carries the outcome of one background parse. seq identifies the
// edit it belongs to; stale results are dropped.
type parsedMsg struct {
	seq    int
	source string
	result *vera.Result
	err    error
}
