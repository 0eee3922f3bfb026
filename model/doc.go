// Package model names the Gemini models the cascade can use and groups
// them into capability tiers.
//
// Each free-tier model carries its own independent request quota, so an
// ordered list of interchangeable models multiplies the usable request
// rate. DefaultCascade returns that list in the order it should be tried.
package model
