package dockerfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacroPower/xgoimages/pkg/dockerfile"
	"github.com/MacroPower/xgoimages/pkg/release"
)

var (
	amd64File = release.File{
		Filename: "go1.21.3.linux-amd64.tar.gz",
		OS:       "linux",
		Arch:     "amd64",
		SHA256:   "1241381b2843fae5a9707eec1f8fb2ef94d827990582c7c7c32f5bdfbfd420c8",
	}
	arm64File = release.File{
		Filename: "go1.21.3.linux-arm64.tar.gz",
		OS:       "linux",
		Arch:     "arm64",
		SHA256:   "fc90fa48ae97ba6368eecb914343590bbb61b388089510d0c56c2dde52987ef3",
	}
)

func TestConcrete(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts  dockerfile.Options
		files []release.File
		want  string
	}{
		"single arch": {
			files: []release.File{amd64File},
			want: `## GENERATED. DO NOT EDIT DIRECTLY.
FROM toolchain

ENV GO_VERSION 1213

RUN \
  export ROOT_DIST=https://dl.google.com/go/go1.21.3.linux-amd64.tar.gz && \
  export ROOT_DIST_SHA=1241381b2843fae5a9707eec1f8fb2ef94d827990582c7c7c32f5bdfbfd420c8 && \
  \
$BOOTSTRAP_PURE
`,
		},
		"dual arch": {
			files: []release.File{amd64File, arm64File},
			want: `## GENERATED. DO NOT EDIT DIRECTLY.
FROM toolchain

ARG TARGETARCH=amd64
ENV GO_VERSION 1213

RUN \
  if [ "$TARGETARCH" = "amd64" ]; then \
    export ROOT_DIST=https://dl.google.com/go/go1.21.3.linux-amd64.tar.gz && \
    export ROOT_DIST_SHA=1241381b2843fae5a9707eec1f8fb2ef94d827990582c7c7c32f5bdfbfd420c8; \
  elif [ "$TARGETARCH" = "arm64" ]; then \
    export ROOT_DIST=https://dl.google.com/go/go1.21.3.linux-arm64.tar.gz && \
    export ROOT_DIST_SHA=fc90fa48ae97ba6368eecb914343590bbb61b388089510d0c56c2dde52987ef3; \
  else \
    echo "Unsupported architecture: $TARGETARCH" && exit 1; \
  fi && \
  \
$BOOTSTRAP_PURE
`,
		},
		"custom options": {
			opts: dockerfile.Options{
				BaseImage:       "ghcr.io/example/base:1",
				DownloadBaseURL: "https://mirror.example.com/golang",
				Bootstrap:       "$BOOTSTRAP_REPO",
			},
			files: []release.File{arm64File},
			want: `## GENERATED. DO NOT EDIT DIRECTLY.
FROM ghcr.io/example/base:1

ENV GO_VERSION 1213

RUN \
  export ROOT_DIST=https://mirror.example.com/golang/go1.21.3.linux-arm64.tar.gz && \
  export ROOT_DIST_SHA=fc90fa48ae97ba6368eecb914343590bbb61b388089510d0c56c2dde52987ef3 && \
  \
$BOOTSTRAP_REPO
`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r, err := dockerfile.NewRenderer(tc.opts)
			require.NoError(t, err)

			got, err := r.Concrete(release.Normalize("go1.21.3"), tc.files)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))

			again, err := r.Concrete(release.Normalize("go1.21.3"), tc.files)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestConcreteNoFiles(t *testing.T) {
	t.Parallel()

	r, err := dockerfile.NewRenderer(dockerfile.Options{})
	require.NoError(t, err)

	_, err = r.Concrete(release.Normalize("go1.21.3"), nil)
	require.ErrorIs(t, err, dockerfile.ErrNoFiles)
}

func TestWildcard(t *testing.T) {
	t.Parallel()

	r, err := dockerfile.NewRenderer(dockerfile.Options{})
	require.NoError(t, err)

	got, err := r.Wildcard(release.Normalize("go1.21"))
	require.NoError(t, err)
	assert.Equal(t, "## GENERATED. DO NOT EDIT DIRECTLY.\nFROM go-1.21.0\n", string(got))
}

func TestLatest(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts dockerfile.Options
		want string
	}{
		"default image": {
			want: "## GENERATED. DO NOT EDIT DIRECTLY.\nFROM techknowlogick/xgo:go-1.21.x\n",
		},
		"custom image": {
			opts: dockerfile.Options{LatestImage: "ghcr.io/example/xgo"},
			want: "## GENERATED. DO NOT EDIT DIRECTLY.\nFROM ghcr.io/example/xgo:go-1.21.x\n",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r, err := dockerfile.NewRenderer(tc.opts)
			require.NoError(t, err)

			got, err := r.Latest(release.Normalize("go1.21.3"))
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestDownloadURL(t *testing.T) {
	t.Parallel()

	r, err := dockerfile.NewRenderer(dockerfile.Options{DownloadBaseURL: "https://go.dev/dl"})
	require.NoError(t, err)

	assert.Equal(t, "https://go.dev/dl/go1.21.3.linux-amd64.tar.gz", r.DownloadURL(amd64File))
}
