// Package http implements the command which serves a directory over HTTP
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/moonfall/devserve/cmd"
	"github.com/moonfall/devserve/fs"
	"github.com/moonfall/devserve/fs/config/flags"
	"github.com/moonfall/devserve/lib/env"
	libhttp "github.com/moonfall/devserve/lib/http"
	"github.com/moonfall/devserve/lib/http/serve"
	"github.com/moonfall/devserve/lib/metrics"
	"github.com/moonfall/devserve/lib/mimetable"
	"github.com/moonfall/devserve/lib/mimetable/mimeflags"
	"github.com/moonfall/devserve/lib/systemd"
	"github.com/moonfall/devserve/vfs"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Options required for http server
type Options struct {
	HTTP      libhttp.Config
	Template  libhttp.TemplateConfig
	NoListing bool // answer 404 for directories without an index
}

// DefaultOpt is the default values used for Options
var DefaultOpt = Options{
	HTTP:     libhttp.DefaultCfg(),
	Template: libhttp.DefaultTemplateCfg(),
}

// Opt is options set via command line
var Opt = DefaultOpt

// stdout is where the startup line is written
var stdout io.Writer = os.Stdout

// AddFlags adds the flags for serving to flagSet
//
// It may be called for more than one flagSet, the flags all set Opt.
func AddFlags(flagSet *pflag.FlagSet) {
	Opt.HTTP.AddFlagsPrefix(flagSet, "")
	Opt.Template.AddFlagsPrefix(flagSet, "")
	flags.BoolVarP(flagSet, &Opt.NoListing, "no-listing", "", Opt.NoListing, "Don't list directories which have no index file")
	mimeflags.AddFlags(flagSet)
	metrics.AddFlags(flagSet)
}

func init() {
	AddFlags(Command.Flags())
}

// Help describes serving for the command help
var Help = `devserve serves a directory over HTTP.  It can be viewed in a web
browser and is meant for developing web sites locally.

The directory served is the one given on the command line or the
current directory if none is given.  It can't be changed once the
server has started.  Leading ` + "`~`" + ` will be expanded in the directory
and the paths given to ` + "`--template`, `--cert`, `--key` and `--client-ca`" + `
as will environment variables such as ` + "`${HOME}`" + `.

A directory request without a trailing "/" is redirected to the same
URL with a "/" added.  A directory with an index.html or index.htm is
served as that file, otherwise devserve lists the directory unless
` + "`--no-listing`" + ` is set.  The listing can be sorted with the ?sort=
and ?order= parameters.

Only GET and HEAD are allowed.  Other methods get a 405 response.

### Content types

Files ending in .js are served as application/javascript.  The content
type of other files comes from the platform mime table, and if the
extension isn't in it from the first bytes of the file.

Use ` + "`--mime-type .ext=type`" + ` to set the type of an extension, e.g.
` + "`--mime-type .wasm=application/wasm`" + `.  It may be repeated.

### Metrics

Use ` + "`--metrics-addr`" + ` to serve request metrics in Prometheus format on
a separate address, e.g. ` + "`--metrics-addr localhost:9090`" + `.  The
metrics are served on /metrics.

The server will log errors.  Use ` + "`-v`" + ` to see access logs.

`

// Command definition for cobra
var Command = &cobra.Command{
	Use:   "http [flags] [root]",
	Short: `Serve a directory over HTTP.`,
	Long:  Help + libhttp.Help("") + libhttp.TemplateHelp(""),
	Annotations: map[string]string{
		"versionIntroduced": "v0.1.0",
	},
	Args: cobra.ArbitraryArgs,
	Run:  RunCommand,
}

// RunCommand serves the directory in args, or the current directory
// if args is empty. It never returns.
func RunCommand(command *cobra.Command, args []string) {
	cmd.CheckArgs(0, 1, command, args)
	root := "."
	if len(args) > 0 {
		root = env.ShellExpand(args[0])
	}
	env.ShellExpandAll(&Opt.Template.Path, &Opt.HTTP.TLSCert, &Opt.HTTP.TLSKey, &Opt.HTTP.ClientCA)
	cmd.Run(command, func() error {
		return Run(context.Background(), root, &Opt)
	})
}

// Run serves root with opt until the server is shut down
//
// It prints "opening server" to stdout once the listeners are bound
// then blocks until the process is signalled or ctx is cancelled.
func Run(ctx context.Context, root string, opt *Options) error {
	types, err := mimeflags.Opt.Table()
	if err != nil {
		return fmt.Errorf("%w: %w", fs.ErrorConfig, err)
	}

	var m *metrics.Metrics
	if metrics.Opt.Enabled() {
		m = metrics.NewMetrics(metrics.Namespace)
		ms, err := metrics.Start(ctx, &metrics.Opt, m.NewRegistry())
		if err != nil {
			return fs.ListenError(err)
		}
		defer func() {
			if err := ms.Shutdown(); err != nil {
				fs.Errorf(nil, "Failed to stop metrics server: %v", err)
			}
		}()
	}

	s, err := newServer(ctx, root, opt, types, m)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout, "opening server")
	s.Serve()
	defer systemd.Notify()()

	for _, u := range s.URLs() {
		fs.Logf(s.vfs, "Serving on %s", u)
	}
	if err := systemd.UpdateStatus(fmt.Sprintf("Serving %s", s.vfs)); err != nil {
		fs.Debugf(nil, "Failed to update systemd status: %v", err)
	}

	// Shutdown comes from a signal via atexit or from ctx
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			if err := s.Shutdown(); err != nil {
				fs.Errorf(nil, "Failed to shutdown server: %v", err)
			}
		case <-done:
		}
	}()

	s.Wait()
	return nil
}

// server contains everything to run the server
type server struct {
	*libhttp.Server
	opt     Options
	vfs     *vfs.VFS
	types   *mimetable.Table
	baseURL string
}

func newServer(ctx context.Context, root string, opt *Options, types *mimetable.Table, m *metrics.Metrics) (*server, error) {
	v, err := vfs.New(root)
	if err != nil {
		return nil, fs.DirError(err)
	}
	s := &server{
		opt:     *opt,
		vfs:     v,
		types:   types,
		baseURL: "/",
	}
	if base := strings.Trim(opt.HTTP.BaseURL, "/"); base != "" {
		s.baseURL = "/" + base + "/"
	}

	s.Server, err = libhttp.NewServer(ctx,
		libhttp.WithConfig(opt.HTTP),
		libhttp.WithTemplate(opt.Template),
		libhttp.WithAccessLog(),
		libhttp.WithMiddleware(m.Middleware()),
	)
	if err != nil {
		return nil, fs.ListenError(fmt.Errorf("failed to init server: %w", err))
	}

	router := s.Router()
	router.HandleFunc("/*", s.handler)

	return s, nil
}

// handler reads incoming requests and dispatches them
func (s *server) handler(w http.ResponseWriter, r *http.Request) {
	if !serve.CheckMethod(w, r) {
		return
	}
	w.Header().Set("Server", "devserve/"+fs.Version)

	urlPath := r.URL.Path
	if urlPath == "" {
		// the BaseURL without a trailing slash
		localRedirect(w, r, s.baseURL)
		return
	}
	isDir := strings.HasSuffix(urlPath, "/")
	remote := strings.Trim(urlPath, "/")

	node, err := s.vfs.Stat(remote)
	switch {
	case errors.Is(err, vfs.ENOENT):
		fs.Infof(remote, "%s: File not found", r.RemoteAddr)
		http.Error(w, "File not found", http.StatusNotFound)
		return
	case errors.Is(err, vfs.EPERM):
		fs.Infof(remote, "%s: Permission denied", r.RemoteAddr)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	case errors.Is(err, vfs.EINVAL):
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	case err != nil:
		serve.Error(r.Context(), remote, w, "Failed to find file", err)
		return
	}

	switch x := node.(type) {
	case *vfs.Dir:
		if !isDir {
			localRedirect(w, r, url.PathEscape(path.Base(urlPath))+"/")
			return
		}
		s.serveDir(w, r, x)
	case *vfs.File:
		if isDir {
			http.Error(w, "Not a directory", http.StatusNotFound)
			return
		}
		serve.Object(w, r, x, s.types)
	default:
		serve.Error(r.Context(), remote, w, "Unknown node type", fmt.Errorf("%T", node))
	}
}

// serveDir serves the index of dir if it has one, otherwise a listing
func (s *server) serveDir(w http.ResponseWriter, r *http.Request, dir *vfs.Dir) {
	if index, ok := dir.Index(); ok {
		serve.Object(w, r, index, s.types)
		return
	}
	if s.opt.NoListing {
		fs.Infof(dir, "%s: Directory listing disabled", r.RemoteAddr)
		http.Error(w, "Directory listing disabled", http.StatusNotFound)
		return
	}

	dirEntries, err := dir.ReadDirAll()
	if err != nil {
		serve.Error(r.Context(), dir, w, "Failed to list directory", err)
		return
	}

	directory := serve.NewDirectory(dir.Path(), s.HTMLTemplate())
	for _, node := range dirEntries {
		directory.AddHTMLEntry(node.Path(), node.IsDir(), node.Size(), node.ModTime())
	}

	query := r.URL.Query()
	directory.ProcessQueryParams(query.Get("sort"), query.Get("order"))
	directory.Serve(w, r)
}

// localRedirect gives a Moved Permanently response with a relative
// Location so it works behind a BaseURL. The query is kept.
func localRedirect(w http.ResponseWriter, r *http.Request, newPath string) {
	if q := r.URL.RawQuery; q != "" {
		newPath += "?" + q
	}
	w.Header().Set("Location", newPath)
	w.WriteHeader(http.StatusMovedPermanently)
}
