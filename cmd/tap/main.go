package main

import (
	"fmt"
	"os"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	if len(os.Args) > 1 {
		var err error
		switch os.Args[1] {
		case "--version", "version":
			fmt.Printf("tap %s\n", Version)
			fmt.Println("Homebrew tap for spkdl, with private GitHub downloads")
			return
		case "fetch":
			err = runFetch(os.Args[2:])
		case "info":
			err = runInfo(os.Args[2:])
		case "install":
			err = runInstall(os.Args[2:])
		case "test":
			err = runTest(os.Args[2:])
		case "--help", "-h", "help":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n", os.Args[1])
			printUsage()
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printUsage()
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  tap --version                      Show version information")
	fmt.Println("  tap fetch [options] <url>          Download a file from a private GitHub repository or release")
	fmt.Println("  tap info [options] [formula]       Show a formula and the build for this platform")
	fmt.Println("  tap install [options] [formula]    Download, verify and install a formula")
	fmt.Println("  tap test [options] [formula]       Run the smoke test of an installed formula")
	fmt.Println()
	fmt.Println("A formula is a built-in name (default: spkdl) or a path to a .lua file.")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  HOMEBREW_GITHUB_API_TOKEN   GitHub token used for every private download")
	fmt.Println("  HOMEBREW_PREFIX             Installation prefix (default: ~/.local)")
	fmt.Println("  HOMEBREW_TEMP               Scratch directory")
	fmt.Println("  HOMEBREW_CURL_RETRIES       Extra download attempts (default: 0)")
	fmt.Println("  HOMEBREW_API_TRANSPORT      API transport: http or curl")
	fmt.Println("  HOMEBREW_NO_GITHUB_API      Disable GitHub API calls")
	fmt.Println("  HOMEBREW_DEBUG              Verbose logging")
}
