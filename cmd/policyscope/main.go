// Command policyscope fetches Intune policies from Microsoft Graph,
// normalizes them and serves them as JSON, stats and markdown reports.
package main

func main() {
	Execute()
}
