package usecase

import (
	"github.com/mxmul/microsite/internal/config"
	"github.com/mxmul/microsite/internal/core"
)

// CleanService removes everything a build produces: the dist tree and the
// work directory.
type CleanService struct {
	cfg *config.Config
	fs  FileSystem
	cli CLIOutput
}

func NewCleanService(cfg *config.Config, fs FileSystem, cliOut CLIOutput) *CleanService {
	return &CleanService{cfg: cfg, fs: fs, cli: cliOut}
}

func (s *CleanService) Clean() error {
	for _, dir := range []string{s.cfg.DistPath(), s.cfg.WorkPath()} {
		if !s.fs.FileExists(dir) {
			continue
		}
		if err := s.fs.RemoveAll(dir); err != nil {
			return core.NewFilesystemError("remove", dir, err)
		}
		s.cli.PrintFile(dir)
	}
	s.cli.PrintSuccess("Clean")
	return nil
}
