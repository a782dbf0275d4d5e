package http

import (
	"io/fs"
	stdhttp "net/http"
	"path"
	"strings"
)

// publicFileSystem hides directories that have no index.html so the file server never lists them.
type publicFileSystem struct {
	root stdhttp.FileSystem
}

func (p publicFileSystem) Open(name string) (stdhttp.File, error) {
	file, err := p.root.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	if info.IsDir() {
		index, err := p.root.Open(path.Join(strings.TrimSuffix(name, "/"), "index.html"))
		if err != nil {
			_ = file.Close()
			return nil, fs.ErrNotExist
		}
		_ = index.Close()
	}

	return file, nil
}

func newStaticAssetHandler(dir string) stdhttp.Handler {
	if strings.TrimSpace(dir) == "" {
		return stdhttp.NotFoundHandler()
	}

	return stdhttp.FileServer(publicFileSystem{root: stdhttp.Dir(dir)})
}
