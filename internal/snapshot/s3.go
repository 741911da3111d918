// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/dustin/go-humanize"

	awsx "github.com/tarkovdev/purgectl/internal/aws"
	"github.com/tarkovdev/purgectl/internal/cacheutil"
	"github.com/tarkovdev/purgectl/internal/log"
)

// S3API is the subset of the S3 client used by the S3 store.
type S3API interface {
	s3v2.ListObjectVersionsAPIClient
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// S3 reads snapshots from a versioned bucket. A dataset lives at
// <Prefix>/<dataset>.json; the latest object version is the New snapshot and
// the version before it is the Old one. When the bucket holds fewer than two
// versions, Old falls back to <Prefix>/<dataset>_old.json.
//
// Object versions are immutable so their bodies are kept in Cache.
type S3 struct {
	Client S3API
	Bucket string
	Prefix string
	Cache  *cacheutil.Cache
}

// objectVersion is one live version of a dataset object.
type objectVersion struct {
	ID       string
	Modified time.Time
}

// NewS3 builds an S3 store using the shell's AWS configuration chain.
func NewS3(ctx context.Context, bucket, prefix string, cache *cacheutil.Cache, opts ...awsx.Option) (*S3, error) {
	if bucket == "" {
		return nil, errors.New("s3 snapshot store requires a bucket")
	}
	cfg, err := awsx.LoadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3{
		Client: awsx.NewS3(cfg, opts...),
		Bucket: bucket,
		Prefix: prefix,
		Cache:  cache,
	}, nil
}

// Key returns the object key holding dataset.
func (s *S3) Key(dataset string) string {
	return path.Join(s.Prefix, dataset+".json")
}

// Read implements Store.
func (s *S3) Read(ctx context.Context, dataset string, v Version) (Snapshot, error) {
	if err := validName(dataset); err != nil {
		return nil, err
	}

	key := s.Key(dataset)
	versions, err := s.versions(ctx, key)
	if err != nil {
		return nil, err
	}
	log.Debugf("s3 versions: key=%s count=%d", key, len(versions))

	var body []byte
	switch idx := int(v); {
	case idx < len(versions):
		body, err = s.versionBody(ctx, dataset, key, versions[idx].ID)
	case v == Old:
		body, err = s.objectBody(ctx, path.Join(s.Prefix, dataset+"_old.json"), "")
	default:
		err = ErrNotFound
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%s %s snapshot: %w", dataset, v, ErrNotFound)
		}
		return nil, err
	}
	log.Debugf("read %s %s snapshot from s3://%s/%s (%s)", dataset, v, s.Bucket, key, humanize.Bytes(uint64(len(body))))

	snap, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("s3://%s/%s: %w", s.Bucket, key, err)
	}
	return snap, nil
}

// versions lists the live versions of key, most recent first. Versions older
// than the most recent delete marker are dropped.
func (s *S3) versions(ctx context.Context, key string) ([]objectVersion, error) {
	paginator := s3v2.NewListObjectVersionsPaginator(s.Client, &s3v2.ListObjectVersionsInput{
		Bucket: awsv2.String(s.Bucket),
		Prefix: awsv2.String(key),
	})

	var allDeleteMarkers []types.DeleteMarkerEntry
	var allVersions []types.ObjectVersion
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list object versions: %w", err)
		}
		allDeleteMarkers = append(allDeleteMarkers, page.DeleteMarkers...)
		allVersions = append(allVersions, page.Versions...)
	}

	// The prefix is literally a prefix, so other datasets sharing it (items vs
	// items_old) show up too.
	var mostRecentDelete time.Time
	for _, d := range allDeleteMarkers {
		if d.Key == nil || *d.Key != key {
			continue
		}
		if d.LastModified != nil && d.LastModified.After(mostRecentDelete) {
			mostRecentDelete = *d.LastModified
		}
	}

	var result []objectVersion
	for _, ov := range allVersions {
		if ov.Key == nil || *ov.Key != key || ov.VersionId == nil || ov.LastModified == nil {
			continue
		}
		if ov.LastModified.Before(mostRecentDelete) {
			continue
		}
		result = append(result, objectVersion{ID: *ov.VersionId, Modified: *ov.LastModified})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Modified.After(result[j].Modified)
	})
	return result, nil
}

// versionBody returns the body of one object version, via the cache when the
// version is immutable.
func (s *S3) versionBody(ctx context.Context, dataset, key, versionID string) ([]byte, error) {
	// Unversioned buckets report the "null" version, which can be overwritten.
	cacheable := versionID != "" && versionID != "null"
	sub := []string{s.Bucket, s.Prefix, dataset}

	if cacheable {
		if entry, ok := s.Cache.Read(sub, versionID); ok {
			return entry.Data, nil
		}
	}

	body, err := s.objectBody(ctx, key, versionID)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.Cache.Write(sub, versionID, body); err != nil {
			log.WithError(err).Warn("failed to write snapshot to cache")
		}
	}
	return body, nil
}

func (s *S3) objectBody(ctx context.Context, key, versionID string) ([]byte, error) {
	input := &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(key),
	}
	if versionID != "" {
		input.VersionId = awsv2.String(versionID)
	}

	result, err := s.Client.GetObject(ctx, input)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get S3 object %s: %w", key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}
	return data, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchVersion", "NotFound":
			return true
		}
	}
	return false
}
