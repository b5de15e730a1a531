/* Copyright 2025 Papershelf Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package filehost

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/clock"
	"github.com/pkg/errors"
)

// objectAPI is the subset of the S3 client used by the host
type objectAPI interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
	DeleteObjectWithContext(ctx aws.Context, input *s3.DeleteObjectInput, opts ...request.Option) (*s3.DeleteObjectOutput, error)
}

// S3 stores files in an S3 bucket
type S3 struct {
	svc    objectAPI
	bucket string
	region string
	clock  clock.Clock
}

// NewS3 returns a host writing into bucket. Credentials come from the
// default AWS provider chain.
func NewS3(bucket, region string, c clock.Clock) (*S3, error) {
	if bucket == "" {
		return nil, ErrDisabled
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating AWS session")
	}

	return &S3{svc: s3.New(sess), bucket: bucket, region: region, clock: c}, nil
}

// Name returns the host name
func (h *S3) Name() string { return "s3" }

func (h *S3) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", h.bucket, h.region, key)
}

// Upload puts the file into the bucket
func (h *S3) Upload(ctx context.Context, f catalog.Payload, title string) (catalog.FileInfo, error) {
	key := ObjectName(h.clock.Now().UnixMilli(), f.Name)

	contentType := f.MimeType
	if contentType == "" {
		contentType = "application/pdf"
	}

	out, err := h.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(f.Data),
		ContentType: aws.String(contentType),
		Metadata:    map[string]*string{"Title": aws.String(title)},
	})
	if err != nil {
		return catalog.FileInfo{}, errors.Wrapf(err, "uploading %s to %s", key, h.bucket)
	}

	return catalog.FileInfo{
		SHA:      strings.Trim(aws.StringValue(out.ETag), `"`),
		Filename: key,
		Size:     int64(len(f.Data)),
		URL:      h.objectURL(key),
	}, nil
}

// Delete removes the object from the bucket
func (h *S3) Delete(ctx context.Context, info catalog.FileInfo) error {
	if _, err := h.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(info.Filename),
	}); err != nil {
		return errors.Wrapf(err, "deleting %s from %s", info.Filename, h.bucket)
	}

	return nil
}
