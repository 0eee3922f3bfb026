// Package parser recovers a JSON value from free-form model output.
//
// Models asked for "JSON only" still wrap answers in markdown fences, lead
// with prose or trail off with commentary. Extraction narrows the text and
// then tries a short, ordered list of candidate slices until one decodes:
//
//  1. BracketSpan narrows to the first {…} or […] span.
//  2. FencedBlock narrows to the first ```json fence, else the first ``` fence.
//  3. Direct decodes the working text as is.
//  4. OuterBraces decodes from the first '{' to the last '}'.
//
// Every step is a pure, total Strategy, so the chain can be inspected and
// each step tested on its own. Extraction either yields one decoded value
// or a *ParseError; nothing is partially applied.
//
//	var result VisionResult
//	if err := parser.ExtractInto(raw, &result); err != nil {
//	    return err
//	}
package parser
