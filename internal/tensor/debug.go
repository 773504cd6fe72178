package tensor

import "os"

// boundsCheckEnabled turns on the defensive buffer-address checks. With
// correct stride bookkeeping those checks never fire, so they are paid for
// only when WARP_DEBUG_BOUNDS is set in the environment.
var boundsCheckEnabled = os.Getenv("WARP_DEBUG_BOUNDS") != ""
