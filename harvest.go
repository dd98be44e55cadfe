// Package harvest collects facts about organizations from their websites.
// For each organization it derives a web domain, probes a short ordered list
// of candidate pages, and pulls executive names, contact emails, founding
// years and leadership rosters out of the page text with pattern matching.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, publicsuffix/, sqlite/).
package harvest
