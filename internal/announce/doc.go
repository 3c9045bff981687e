// Package announce renders capture and tournament output for the console.
package announce
