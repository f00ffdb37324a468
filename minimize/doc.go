/*
Package minimize provides the parallel mini-batch cost-function
evaluation engine.

# Overview

Given a parameter vector and a fixed partitioning of a training dataset
into batches, the engine computes a scalar cost and a gradient vector
per batch on a bounded worker pool and combines the per-batch results
into a single aggregate consumed by an iterative optimizer.

Two aggregation policies exist:

  - full mode: every batch is evaluated each call and cost and gradient
    are averaged over the batch count
  - stochastic mode: exactly one batch is evaluated per call, rotating
    through all batches across successive calls

The batch algorithm itself is pluggable through the Evaluator interface;
the rbm package ships a contrastive-divergence implementation.

# Failure contract

Any failing or cancelled batch aborts the whole Evaluate call with an
error carrying types.ErrEvaluationFailure. No partial aggregate is ever
returned, so a consuming optimizer can halt instead of iterating on a
corrupted gradient.
*/
package minimize
