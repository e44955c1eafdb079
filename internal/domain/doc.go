// Package domain models Hangar 18 gym occupancy data and extracts it from
// the Rock Gym Pro portal page.
//
// # Data Source
//
// Occupancy figures come from the public Rock Gym Pro portal iframe embedded
// on https://www.climbhangar18.com/. The portal page is plain HTML with an
// inline <script> that assigns an object literal to a JavaScript variable:
//
//	<script>
//	var data = {
//	  'UPL': {
//	    'capacity': 65,
//	    'count': 23,
//	    'subLabel': '...'
//	  },
//	  ...
//	};
//	</script>
//
// The literal is not valid JSON: keys and strings are single-quoted, records
// carry trailing fields we do not track, and a trailing comma may follow the
// last entry. Extract therefore uses a small hand-written scanner rather than
// encoding/json.
//
// # Format Conventions
//
// Facility codes are short uppercase identifiers assigned by the portal
// ("ARC", "UPL", ...). DefaultFacilityNames maps the ten codes of the
// reference deployment to display names; codes outside the table are dropped
// during extraction so the portal can add locations without breaking us.
//
// The 'capacity' and 'count' fields are required, in that order. The strict
// name and order check is deliberate: when the portal format drifts, Extract
// fails loudly with a positioned error instead of producing a plausible but
// wrong mapping. Any fields after 'count' are skipped verbatim up to the
// record's closing brace. That skip would end the record early if an
// unparsed trailing value ever contained a '}' of its own; the portal format
// has no nested braces there, so the simple scan is kept.
//
// No relationship between count and capacity is enforced. The portal reports
// raw turnstile figures and count can exceed capacity on busy days; ratio
// clamping is a rendering concern.
package domain
