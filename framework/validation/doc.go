// Package validation checks flat string maps against pipe-separated rule
// strings, in the style of Laravel's Validator.
//
//	v := validation.Make(map[string]string{
//	    "LOG_LEVEL":     "debug",
//	    "IOC_MAX_DEPTH": "16",
//	}, validation.Rules{
//	    "LOG_LEVEL":     "required|in:debug,info,warn,error",
//	    "IOC_MAX_DEPTH": "required|integer|gte:0",
//	})
//
//	if err := v.Err(); err != nil {
//	    // err is *Errors; Bag serialises as {"errors": {"field": ["msg"]}}
//	}
//
// # Available Rules
//
//   - required       — present and non-blank
//   - nullable       — an empty value skips the remaining rules
//   - integer        — parseable as int
//   - boolean        — accepted by strconv.ParseBool
//   - in:a,b,c       — one of the listed values
//   - gte:n          — numerically greater than or equal to n
//
// Fields are checked in sorted order and each field stops at its first
// failing rule. An unknown rule name fails the field.
package validation
