// Package params adapts the two inbound credential carriers (flat
// query/form stores and parsed JSON request bodies) to the
// core.RequestParameters read contract.
package params
