package util

import "runtime"

// GetOptimalPoolSize returns the pool size used for batch workers and the
// parser pool, so that workers never wait on a parser.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
func GetOptimalPoolSize() int {
	poolSize := runtime.NumCPU() * 2
	if poolSize < 4 {
		poolSize = 4
	}
	if poolSize > 32 {
		poolSize = 32
	}
	return poolSize
}

// GetOptimalPoolSizeWithOverride returns override when positive, else
// GetOptimalPoolSize().
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
