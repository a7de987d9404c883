/*
 * archive_test.go, part of fraggrow.
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

package archive

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmera/fraggrow/growing"
)

type fakeStore struct {
	buckets map[string]bool
	objects map[string][]byte
	types   map[string]string
	fail    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{buckets: map[string]bool{}, objects: map[string][]byte{}, types: map[string]string{}}
}

func (F *fakeStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return F.buckets[bucket], nil
}

func (F *fakeStore) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	F.buckets[bucket] = true
	return nil
}

func (F *fakeStore) PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if F.fail {
		return minio.UploadInfo{}, errors.New("storage down")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	F.objects[bucket+"/"+object] = b
	F.types[bucket+"/"+object] = opts.ContentType
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: int64(len(b))}, nil
}

func files(Te *testing.T) (*growing.RunContext, *growing.Iteration) {
	rc, err := growing.NewRunContext(Te.TempDir(), nil)
	require.NoError(Te, err)
	it := &growing.Iteration{Index: 1, Input: rc.Path("1_in.pdb"), Template: rc.Path("grwz_1")}
	require.NoError(Te, os.WriteFile(it.Input, []byte("HETATM structure\n"), 0o644))
	require.NoError(Te, os.WriteFile(it.Template, []byte("template\n"), 0o644))
	require.NoError(Te, os.WriteFile(rc.Path(growing.InputName), []byte("selected\n"), 0o644))
	return rc, it
}

func TestArchiver(Te *testing.T) {
	ctx := context.Background()
	F := newFakeStore()
	A, err := NewWithAPI(ctx, F, Config{Bucket: "growing", Prefix: "project"}, nil)
	require.NoError(Te, err)
	assert.True(Te, F.buckets["growing"])
	rc, it := files(Te)
	require.NoError(Te, A.Observe(ctx, rc, it))
	key := "growing/project/" + rc.ID + "/pdbs/1_in.pdb"
	assert.Equal(Te, "HETATM structure\n", string(F.objects[key]))
	assert.Equal(Te, "chemical/x-pdb", F.types[key])
	assert.Equal(Te, "template\n", string(F.objects["growing/project/"+rc.ID+"/templates/grwz_1"]))

	require.NoError(Te, A.Finish(ctx, rc, growing.Failed, nil))
	assert.Len(Te, F.objects, 2)
	require.NoError(Te, A.Finish(ctx, rc, growing.Done, nil))
	assert.Equal(Te, "selected\n", string(F.objects["growing/project/"+rc.ID+"/pdbs/final_"+growing.InputName]))
}

func TestArchiverCompress(Te *testing.T) {
	ctx := context.Background()
	F := newFakeStore()
	F.buckets["growing"] = true
	A, err := NewWithAPI(ctx, F, Config{Bucket: "growing", Compress: true}, nil)
	require.NoError(Te, err)
	rc, it := files(Te)
	require.NoError(Te, A.Observe(ctx, rc, it))
	key := "growing/" + filepath.Join(rc.ID, "pdbs", "1_in.pdb.zst")
	data, ok := F.objects[key]
	require.True(Te, ok)
	dec, err := zstd.NewReader(nil)
	require.NoError(Te, err)
	defer dec.Close()
	plain, err := dec.DecodeAll(data, nil)
	require.NoError(Te, err)
	assert.Equal(Te, "HETATM structure\n", string(plain))
	assert.Equal(Te, "application/zstd", F.types[key])

	F.fail = true
	assert.Error(Te, A.Observe(ctx, rc, it))
}

func TestNewNeedsEndpoint(Te *testing.T) {
	_, err := New(context.Background(), Config{Bucket: "b"}, nil)
	assert.Error(Te, err)
	assert.False(Te, Config{Endpoint: "localhost:9000"}.Enabled())
}
