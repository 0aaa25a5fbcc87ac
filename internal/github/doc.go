// Package github fetches files from private GitHub repositories and private
// release assets using a token.
//
// # Strategies
//
// Two URL shapes are supported, selected by Strategy:
//
//	repository  https://github.com/<owner>/<repo>/<path>
//	release     https://github.com/<owner>/<repo>/releases/download/<tag>/<filename>
//
// A repository fetch probes GET /repos/<owner>/<repo> (a 404 becomes
// ErrRepositoryAccessDenied) and then downloads
// https://<token>@github.com/<owner>/<repo>/<path>.
//
// A release fetch resolves the asset id with
// GET /repos/<owner>/<repo>/releases/tags/<tag>, picks the first asset whose
// name equals <filename>, and downloads
// https://<token>@api.github.com/repos/<owner>/<repo>/releases/assets/<id>
// with "Accept: application/octet-stream".
//
// # API calls
//
// Client.Call is the single authorized API primitive. It sends
// "Accept: application/vnd.github.v3+json" and "Authorization: token <token>",
// classifies failures (ErrAuthenticationFailed, ErrRateLimited, ErrNotFound,
// ErrValidationFailed, ErrAPI) and returns raw JSON. When the configuration
// disables API use every call returns an empty object without touching the
// network.
//
// Calls go through a Transport: net/http by default, or the curl binary,
// which stages request bodies and response headers in scratch files that are
// removed before the call returns.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	fetcher := github.NewFetcher(cfg)
//	err = fetcher.Fetch(ctx, github.DownloadRequest{
//	    URL:         "https://github.com/acme/tools/releases/download/v2.0/tool_linux_amd64.tar.gz",
//	    Destination: "/tmp/tool.tar.gz",
//	})
package github
