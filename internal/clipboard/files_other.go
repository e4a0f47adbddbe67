//go:build !darwin || !cgo

package clipboard

// readFileList reports absence; neither clipboard backend exposes file targets
func readFileList() ([]string, error) {
	return nil, nil
}
