/*
Copyright © 2025 Foodgram Project
SPDX-License-Identifier: Apache-2.0
*/

package compose

import (
	"github.com/distribution/reference"

	apperrors "github.com/foodgram-ops/foodgate/pkg/errors"
)

// ImageRef is the normalized form of a service image reference.
type ImageRef struct {
	// Registry is the registry host (e.g., "docker.io").
	Registry string
	// Repository is the image repository path (e.g., "foodgram/backend").
	Repository string
	// Tag is the image tag; "latest" when the manifest omits it.
	Tag string
}

// ParseImageRef validates and normalizes a Compose image reference the
// way a container engine would (docker.io and the library namespace
// are implied for short names).
func ParseImageRef(image string) (*ImageRef, error) {
	if image == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidManifest, "image reference is empty")
	}

	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidManifest,
			"invalid image reference", err, map[string]any{"image": image})
	}

	tag := "latest"
	if tagged, ok := named.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	return &ImageRef{
		Registry:   reference.Domain(named),
		Repository: reference.Path(named),
		Tag:        tag,
	}, nil
}

// String returns the normalized reference without the implied
// docker.io registry.
func (r *ImageRef) String() string {
	if r.Registry == "docker.io" {
		return r.Repository + ":" + r.Tag
	}
	return r.Registry + "/" + r.Repository + ":" + r.Tag
}
