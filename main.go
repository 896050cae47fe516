// Command link-forensics serves the link scanning API used by the browser
// extension.
//
// Usage:
//
//	link-forensics serve [--port 5000]
//	link-forensics check <url>
package main

func main() {
	Execute()
}
