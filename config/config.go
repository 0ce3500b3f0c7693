/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package config holds process-wide knobs that have no per-call
// task.Settings field: traversal and autocomplete read their keys directly,
// and task.NewSettings seeds Settings.Locale from DefaultLocale (task.Settings
// is the per-call object; this is the process-wide layer beneath it).
package config

import (
	"fmt"
	"strconv"

	"devt.de/krotik/common/errorutil"
)

// Global variables
// ================

/*
Known configuration options.
*/
const (
	// TraversalNodeGuard bounds how many nodes a cancellable traversal may
	// visit before it is treated as a runaway walk, independent of any
	// per-call cancellation token.
	TraversalNodeGuard = "TraversalNodeGuard"

	// AutocompleteResultCap bounds how many suggestions an autocomplete
	// sub-inspector returns per request.
	AutocompleteResultCap = "AutocompleteResultCap"

	// AutocompleteConjunctionKeywords toggles whether the keyword
	// sub-inspector also offers and/as/is/meta/or directly after a
	// completed expression.
	AutocompleteConjunctionKeywords = "AutocompleteConjunctionKeywords"

	// DefaultLocale is the IETF tag new Settings start with when the caller
	// does not set one.
	DefaultLocale = "DefaultLocale"
)

/*
DefaultConfig is the default configuration.
*/
var DefaultConfig = map[string]interface{}{
	TraversalNodeGuard:              4096,
	AutocompleteResultCap:           200,
	AutocompleteConjunctionKeywords: true,
	DefaultLocale:                   "en-US",
}

/*
Config is the actual config which is used
*/
var Config map[string]interface{}

/*
Initialise the config
*/
func init() {
	data := make(map[string]interface{})
	for k, v := range DefaultConfig {
		data[k] = v
	}

	Config = data
}

// Helper functions
// ================

/*
Str reads a config value as a string value.
*/
func Str(key string) string {
	return fmt.Sprint(Config[key])
}

/*
Int reads a config value as an int value.
*/
func Int(key string) int {
	ret, err := strconv.ParseInt(fmt.Sprint(Config[key]), 10, 64)

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return int(ret)
}

/*
Bool reads a config value as a boolean value.
*/
func Bool(key string) bool {
	ret, err := strconv.ParseBool(fmt.Sprint(Config[key]))

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return ret
}
