package ethash

import "errors"

// ErrEpochOutOfRange is returned by the Resolver when a seed hash
// cannot be matched within MaxEpoch forward iterations. It is an
// invalid-argument-shaped error: EpochOf, BlockNumberOf, LightFor and
// Compute return it to the caller unwrapped, while Evaluate, like for
// any other failure, reports the sentinel result instead.
var ErrEpochOutOfRange = errors.New("ethash: seed hash is outside the supported epoch range")

// ErrVerify is the sentinel wrapped by Compute when light-cache
// generation panics (for example, a cache allocation that cannot be
// made).
var ErrVerify = errors.New("ethash: light verification failed")
