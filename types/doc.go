/*
Package types provides the shared type definitions of the gradflow engine.

types is the lowest-level public package and depends on no other package
in the module. It defines the structured error system used across the
partitioner, the worker pool and the mini-batch orchestrator, so that
callers (typically an iterative optimizer) can distinguish a failed
evaluation from a valid zero-cost result.

Core types:

  - Error / ErrorCode — structured error with code, message and cause
  - WrapError / GetErrorCode / IsCode — error tool chain
*/
package types
