// Package environ provides read-only environment lookups.
//
// Components that substitute variables or expand home-directory shorthand
// receive a [Source] instead of reading the process environment directly.
// [OS] reads the invoking process environment; [Map] is a fixed set of
// variables, used for container environments and in tests.
//
// Example usage:
//
//	home := environ.Expand("~/project/$NAME", environ.Map{
//	    "HOME": "/root",
//	    "NAME": "demo",
//	})
//	// home == "/root/project/demo"
package environ
