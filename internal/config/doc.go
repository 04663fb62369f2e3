// SPDX-License-Identifier: MPL-2.0

// Package config handles nmapw configuration using Viper.
//
// Values come from, in increasing precedence: built-in defaults, an
// optional CUE file validated against the embedded #Config schema, and
// NMAPW_* environment variables.
package config
