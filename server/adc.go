// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
)

// apiKeyDisplayName is the display name the provisioning tooling gives
// the Maps key.
const apiKeyDisplayName = "Wayfarer Geocoding Key"

// ResolveAPIKey returns the Google Maps API key: the environment
// variable when set, otherwise the project's provisioned key looked up
// via Application Default Credentials.
func ResolveAPIKey(ctx context.Context) (string, error) {
	if apiKey := os.Getenv("GOOGLE_MAPS_API_KEY"); apiKey != "" {
		return apiKey, nil
	}

	log.Println("GOOGLE_MAPS_API_KEY is not set. Attempting to retrieve via ADC...")

	return apiKeyFromADC(ctx)
}

func apiKeyFromADC(ctx context.Context) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", fmt.Errorf("finding default credentials: %w", err)
	}

	projectID := creds.ProjectID
	if projectID == "" {
		// User credentials without a quota project carry no project ID.
		projectID = os.Getenv("GOOGLE_CLOUD_PROJECT")
		if projectID == "" {
			return "", errors.New("no project ID in credentials and GOOGLE_CLOUD_PROJECT is not set")
		}
	}

	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer client.Close()

	req := &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", projectID),
	}

	it := client.ListKeys(ctx, req)

	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}

		if key.DisplayName != apiKeyDisplayName {
			continue
		}

		// ListKeys redacts KeyString; GetKeyString retrieves the secret.
		log.Printf("Found key resource '%s', retrieving secret...", key.Name)

		resp, err := client.GetKeyString(ctx, &apikeyspb.GetKeyStringRequest{
			Name: key.Name,
		})
		if err != nil {
			return "", fmt.Errorf("getting key string: %w", err)
		}

		if resp.KeyString == "" {
			return "", fmt.Errorf("key '%s' found but KeyString is empty after GetKeyString", apiKeyDisplayName)
		}

		return resp.KeyString, nil
	}

	return "", fmt.Errorf("key with display name '%s' not found in project %s", apiKeyDisplayName, projectID)
}
