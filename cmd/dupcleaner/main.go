package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/soyunomas/dupcleaner/internal/actions"
	"github.com/soyunomas/dupcleaner/internal/cache"
	"github.com/soyunomas/dupcleaner/internal/config"
	"github.com/soyunomas/dupcleaner/internal/csvlog"
	"github.com/soyunomas/dupcleaner/internal/engine"
	"github.com/soyunomas/dupcleaner/internal/entities"
	"github.com/soyunomas/dupcleaner/internal/logging"
	"github.com/soyunomas/dupcleaner/internal/report"
)

// cliOptions agrupa los flags comunes a todos los subcomandos.
type cliOptions struct {
	configFile string
	extension  string
	minSizeMB  int64
	cacheFile  string
	saveCSV    bool
	csvFile    string
	logFile    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "dupcleaner",
		Short: "Detecta y limpia archivos duplicados por contenido",
		Long: `Detecta archivos byte a byte idénticos mediante un pipeline de tres fases
(tamaño → quick-hash de la ventana inicial → hash completo xxhash64) con
caché persistente de hashes validada por fecha de modificación.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "dupcleaner.ini", "Fichero de configuración (opcional)")
	cmd.PersistentFlags().StringVarP(&opts.extension, "ext", "e", "", "Filtro de extensión (ej: .jpg)")
	cmd.PersistentFlags().Int64VarP(&opts.minSizeMB, "min-size", "m", 0, "Tamaño mínimo en MB enteros")
	cmd.PersistentFlags().StringVar(&opts.cacheFile, "cache-file", "", "Ruta de la caché de hashes")
	cmd.PersistentFlags().BoolVar(&opts.saveCSV, "csv", false, "Registrar duplicados en CSV")
	cmd.PersistentFlags().StringVar(&opts.csvFile, "csv-file", "", "Ruta del CSV de auditoría")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Ruta del fichero de log")

	cmd.AddCommand(newScanCmd(opts))
	cmd.AddCommand(newDeleteCmd(opts))
	cmd.AddCommand(newMoveCmd(opts))
	cmd.AddCommand(newReportCmd(opts))

	return cmd
}

// resolveConfig mezcla defaults, fichero ini y flags (los flags mandan).
func resolveConfig(cmd *cobra.Command, opts *cliOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("ext") {
		cfg.Extension = config.NormalizeExtension(opts.extension)
	}
	if cmd.Flags().Changed("min-size") {
		cfg.MinSizeMB = opts.minSizeMB
	}
	if cmd.Flags().Changed("cache-file") {
		cfg.CacheFile = opts.cacheFile
	}
	if cmd.Flags().Changed("csv") {
		cfg.SaveCSV = opts.saveCSV
	}
	if cmd.Flags().Changed("csv-file") {
		cfg.CSVFile = opts.csvFile
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	return cfg, nil
}

// buildFinder arma el motor con su caché y el CSV opcional.
func buildFinder(root string, cfg config.Config) *engine.Finder {
	hashCache := cache.Open(cfg.CacheFile)
	finder := engine.New(root, engine.Options{
		Extension:  cfg.Extension,
		MinSize:    config.MegabytesToBytes(cfg.MinSizeMB),
		FlushEvery: cfg.FlushEvery,
	}, hashCache)
	if cfg.SaveCSV {
		finder.SetAuditSink(csvlog.New(cfg.CSVFile))
	}
	return finder
}

func newScanCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <carpeta>",
		Short: "Busca duplicados en streaming con progreso en vivo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			logging.Setup(cfg.LogFile)
			return runScan(args[0], cfg)
		},
	}
}

func runScan(root string, cfg config.Config) error {
	finder := buildFinder(root, cfg)

	// Cancelación cooperativa: Ctrl-C levanta la bandera y el motor la
	// sondea una vez por candidato. El archivo en curso siempre termina.
	var stopFlag atomic.Bool
	sigCh := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	defer close(done)
	go func() {
		select {
		case <-sigCh:
			fmt.Println("\n🛑 Cancelación solicitada, terminando el archivo en curso...")
			stopFlag.Store(true)
		case <-done:
		}
	}()

	fmt.Printf("🚀 Dupcleaner - Escaneando: %s\n", root)
	fmt.Println("------------------------------------------------")

	var last entities.ScanEvent
	printed := 0
	for ev := range finder.Scan(stopFlag.Load) {
		if ev.Status == entities.StatusError {
			return fmt.Errorf("%s", ev.Message)
		}
		// El mensaje es acumulativo: pintamos solo lo nuevo, limpiando
		// antes la línea de progreso para no pisarla.
		if len(ev.Message) > printed {
			fmt.Print("\r\033[K" + ev.Message[printed:])
			printed = len(ev.Message)
		}
		fmt.Printf("\r   %s", engine.FormatProgress(ev.Progress))
		last = ev
	}
	fmt.Println()
	fmt.Println("------------------------------------------------")

	switch last.Status {
	case entities.StatusStopped:
		fmt.Printf("🛑 Escaneo detenido. Archivos procesados: %d\n", last.Progress.Processed)
	case entities.StatusFinished:
		fmt.Println("🏁 Escaneo terminado.")
	}
	printStats(last.Stats)
	return nil
}

func printStats(stats entities.TreeStats) {
	fmt.Printf("📊 Archivos totales: %d | Subcarpetas: %d | Tamaño único: %d | Duplicados: %d\n",
		stats.TotalFiles, stats.TotalSubfolders, stats.UniqueSizeFiles, stats.DuplicatesFound)
}

func newDeleteCmd(opts *cliOptions) *cobra.Command {
	var simulate bool

	cmd := &cobra.Command{
		Use:   "delete <carpeta>",
		Short: "Borra los duplicados encontrados (o simula el borrado)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			logging.Setup(cfg.LogFile)

			pairs, err := buildFinder(args[0], cfg).FindAll()
			if err != nil {
				return err
			}
			if len(pairs) == 0 {
				fmt.Println("✅ ¡Limpio! No se encontraron duplicados.")
				return nil
			}

			result := actions.Delete(pairs, simulate)
			if simulate {
				fmt.Printf("🗑️  Borrado simulado: %d archivos. Espacio que se liberaría: %s\n",
					result.SimulatedCount, humanize.IBytes(uint64(result.SpaceFreed)))
			} else {
				fmt.Printf("🔥 Borrados: %d archivos. Espacio liberado: %s\n",
					result.DeletedCount, humanize.IBytes(uint64(result.SpaceFreed)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&simulate, "simulate", "n", false, "Solo contabilizar, sin borrar nada")
	return cmd
}

func newMoveCmd(opts *cliOptions) *cobra.Command {
	var targetDir string

	cmd := &cobra.Command{
		Use:   "move <carpeta>",
		Short: "Mueve los duplicados a una carpeta destino",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetDir == "" {
				return fmt.Errorf("hay que indicar la carpeta destino con --target")
			}
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			logging.Setup(cfg.LogFile)

			pairs, err := buildFinder(args[0], cfg).FindAll()
			if err != nil {
				return err
			}
			if len(pairs) == 0 {
				fmt.Println("✅ ¡Limpio! No se encontraron duplicados.")
				return nil
			}

			result, err := actions.Move(pairs, targetDir)
			if err != nil {
				return err
			}
			fmt.Printf("📦 Movidos: %d archivos a '%s'\n", result.MovedCount, targetDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetDir, "target", "t", "", "Carpeta destino para los duplicados")
	return cmd
}

func newReportCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report <carpeta> [carpeta...]",
		Short: "Informe agregado sobre varias carpetas con histograma de tamaños",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			logging.Setup(cfg.LogFile)

			rep, err := report.Aggregate(args, func(root string) *engine.Finder {
				return buildFinder(root, cfg)
			})
			if err != nil {
				return err
			}

			fmt.Println("📋 Informe avanzado")
			fmt.Println("------------------------------------------------")
			fmt.Printf("Carpetas escaneadas:      %d\n", rep.Summary.TotalDirectories)
			fmt.Printf("Archivos totales:         %d\n", rep.Summary.TotalFilesScanned)
			fmt.Printf("Subcarpetas:              %d\n", rep.Summary.TotalSubfolders)
			fmt.Printf("Archivos de tamaño único: %d\n", rep.Summary.UniqueSizeFiles)
			fmt.Printf("Duplicados encontrados:   %d\n", rep.Summary.DuplicatesFound)
			fmt.Printf("Espacio en duplicados:    %s\n", humanize.IBytes(uint64(rep.Summary.DuplicateBytes)))
			fmt.Printf("Ahorro potencial:         %s\n", rep.Summary.PotentialSavingsHuman)
			fmt.Println("------------------------------------------------")
			fmt.Print(report.RenderHistogram(rep.Pairs, 10))
			return nil
		},
	}
}

// init mantiene el logger callado hasta que cada subcomando lo configure.
func init() {
	log.SetOutput(os.Stderr)
}
