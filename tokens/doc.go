// Package tokens estimates prompt sizes for Gemini models.
//
// Estimates use the rule of thumb that about 4 characters make one token.
// They are good enough for logging and for sanity checks against a
// model's context window; they are not billing-accurate.
//
//	n := tokens.EstimateTokens(prompt)
//	if n > tokens.GetModelLimit("gemini-2.0-flash") {
//	    // shrink the prompt
//	}
package tokens
