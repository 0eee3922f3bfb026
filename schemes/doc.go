// Package schemes matches farmers to government schemes.
//
// Matching is two steps. Eligibility is pure logic over the Catalog: state
// and land-size limits. Ranking asks the model to order the eligible
// schemes and assign each a Tier; when that call or its JSON fails, tiers
// derived from rules are used instead and Find still succeeds.
package schemes
