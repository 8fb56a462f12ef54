// Package stockfolio tracks stock portfolios as collections of dated
// purchase and sale lots.
//
// A [Portfolio] answers what a set of lots is worth on an arbitrary date,
// what it cost to acquire, and what it was made of. [Performance] buckets a
// date range into a series of valuations at adaptive granularity, and
// [Rebalance] computes the synthetic trades that move a portfolio to a
// target allocation. The [Manager] orchestrates multiple named portfolios,
// commission fees with geometric decay, and dollar-cost averaging.
//
// Prices come from a [Market], which lazily fetches and memoizes each
// symbol's full daily close history from a [PriceSource].
package stockfolio
