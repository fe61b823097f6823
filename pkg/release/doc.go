// Package release reads the upstream Go release feed and derives the image
// names used for each release.
//
// The feed is the JSON document served by https://go.dev/dl/?mode=json: an
// array of stable releases, each listing the distribution files published
// for every OS and architecture. Only the two currently supported stable
// lines are expected; [Fetcher.Fetch] treats any other count as fatal.
//
// [Normalize] turns an upstream version such as "go1.21.3" into a
// [Version] holding the concrete image name ("go-1.21.3") and the wildcard
// name for its major.minor line ("go-1.21.x").
package release
