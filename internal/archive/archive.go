/*
 * archive.go, part of fraggrow.
 *
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

//Package archive uploads the files of each growing iteration to S3-compatible object
//storage, optionally compressed with zstd.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rmera/fraggrow/growing"
	"github.com/rmera/fraggrow/internal/logging"
)

//ObjectAPI is the part of the minio client the Archiver uses.
type ObjectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

//Config defines where the files go.
type Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Secure    bool   `mapstructure:"secure"`
	Prefix    string `mapstructure:"prefix"` //object names start with it, then the run id
	Compress  bool   `mapstructure:"compress"`
}

//Enabled returns whether an endpoint and bucket are set.
func (C Config) Enabled() bool {
	return C.Endpoint != "" && C.Bucket != ""
}

//Archiver puts the files of every iteration in a bucket.
type Archiver struct {
	api ObjectAPI
	cfg Config
	log logging.Logger
}

//New connects to the storage cfg describes.
func New(ctx context.Context, cfg Config, log logging.Logger) (*Archiver, error) {
	if !cfg.Enabled() {
		return nil, errors.New("archive: endpoint and bucket are needed")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("archive: creating client: %w", err)
	}
	return NewWithAPI(ctx, client, cfg, log)
}

//NewWithAPI returns an Archiver that uses api, and creates the bucket if it is not there.
func NewWithAPI(ctx context.Context, api ObjectAPI, cfg Config, log logging.Logger) (*Archiver, error) {
	if log == nil {
		log = logging.NewNop()
	}
	A := &Archiver{api: api, cfg: cfg, log: log.Named("archive")}
	exists, err := api.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("archive: checking bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := api.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("archive: creating bucket %s: %w", cfg.Bucket, err)
		}
		A.log.Info("Bucket created", logging.String("bucket", cfg.Bucket))
	}
	return A, nil
}

//ObjectName returns the name under which the file base of the run id is stored.
func (A *Archiver) ObjectName(id, dir, base string) string {
	name := path.Join(A.cfg.Prefix, id, dir, base)
	if A.cfg.Compress {
		name += ".zst"
	}
	return name
}

//Put uploads the local file as object, compressing it if so configured.
func (A *Archiver) Put(ctx context.Context, object, local string) error {
	data, err := os.ReadFile(local)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	ctype := "chemical/x-pdb"
	if filepath.Ext(local) != ".pdb" {
		ctype = "text/plain"
	}
	if A.cfg.Compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("archive: %w", err)
		}
		data = enc.EncodeAll(data, make([]byte, 0, len(data)/2))
		enc.Close()
		ctype = "application/zstd"
	}
	_, err = A.api.PutObject(ctx, A.cfg.Bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: ctype})
	if err != nil {
		return fmt.Errorf("archive: uploading %s: %w", object, err)
	}
	A.log.Debug("Uploaded", logging.String("object", object), logging.Int("bytes", len(data)))
	return nil
}

//Observe uploads the input structure and the template of the iteration it.
func (A *Archiver) Observe(ctx context.Context, run *growing.RunContext, it *growing.Iteration) error {
	for _, v := range []struct{ dir, file string }{{"pdbs", it.Input}, {"templates", it.Template}} {
		if err := A.Put(ctx, A.ObjectName(run.ID, v.dir, filepath.Base(v.file)), v.file); err != nil {
			return err
		}
	}
	return nil
}

//Finish uploads the structure selected by the last iteration, when the run is done.
func (A *Archiver) Finish(ctx context.Context, run *growing.RunContext, state growing.State, its []*growing.Iteration) error {
	if state != growing.Done {
		return nil
	}
	return A.Put(ctx, A.ObjectName(run.ID, "pdbs", "final_"+growing.InputName), run.Path(growing.InputName))
}
