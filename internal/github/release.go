package github

import (
	"context"
	"fmt"
)

// releaseByTagResponse models only the fields of the
// GET /repos/{owner}/{repo}/releases/tags/{tag} response
// required to identify release assets by name.
type releaseByTagResponse struct {
	TagName string         `json:"tag_name"`
	Assets  []releaseAsset `json:"assets"`
}

type releaseAsset struct {
	// ID is the numeric asset id used by the asset download endpoint.
	ID int64 `json:"id"`

	// Name is the filename of the release asset.
	Name string `json:"name"`
}

// findAssetID returns the id of the first asset named filename, in the order
// the API returned them. The match is exact and case-sensitive.
func findAssetID(rel releaseByTagResponse, filename string) (int64, bool) {
	for _, a := range rel.Assets {
		if a.Name == filename {
			return a.ID, true
		}
	}
	return 0, false
}

// ResolveAssetID looks up the id of the asset called filename in the release
// tagged tag. The result is not cached; every call issues one API request.
func (f *Fetcher) ResolveAssetID(ctx context.Context, owner, repo, tag, filename string) (int64, error) {
	var rel releaseByTagResponse
	if err := f.client.CallJSON(ctx, f.endpoints.ReleaseByTagURL(owner, repo, tag), &rel, WithScopes("repo")); err != nil {
		return 0, err
	}

	id, ok := findAssetID(rel, filename)
	if !ok {
		return 0, newFetchError(ErrAssetNotFound,
			fmt.Sprintf("asset file %q not found in release %s of %s/%s", filename, tag, owner, repo), nil)
	}

	return id, nil
}
