// internal/filter/filter_test.go
package filter

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guidance/core/tsv"
	"guidance/internal/artifact"
)

func write(t *testing.T, s *artifact.Store, name string, lines ...string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, s.WriteLines(p, lines))
	return p
}

func read(t *testing.T, path string) []string {
	t.Helper()
	var out []string
	require.NoError(t, tsv.ScanLines(context.Background(), path, func(_ int, l string) error {
		out = append(out, l)
		return nil
	}))
	return out
}

func TestByInfoImpute(t *testing.T) {
	s := artifact.NewStore()
	in := write(t, s, "chunk.impute_info",
		"snp_id rs_id position a0 a1 exp_freq_a1 info certainty type",
		"--- rs1 100 A G 0.1 0.95 0.99 0",
		"--- rs2 200 A G 0.1 0.40 0.99 0",
		"--- rs3 300 C T 0.2 0.70 0.99 0",
	)
	out := filepath.Join(t.TempDir(), "rsids")
	n, err := New(s).ByInfo(context.Background(), in, out, 0.7)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"rs1", "rs3"}, read(t, out))
}

func TestByInfoMinimac(t *testing.T) {
	s := artifact.NewStore()
	in := write(t, s, "chunk.info.gz",
		"SNP\tAl1\tAl2\tFreq1\tMAF\tAvgCall\tRsq",
		"1:100\tA\tG\t0.9\t0.1\t0.99\t0.8",
		"1:200\tA\tG\t0.9\t0.1\t0.99\t0.1",
	)
	out := filepath.Join(t.TempDir(), "rsids")
	_, err := New(s).ByInfo(context.Background(), in, out, 0.3)
	require.NoError(t, err)
	assert.Equal(t, []string{"1:100"}, read(t, out))
}

func TestByInfoBadNumber(t *testing.T) {
	s := artifact.NewStore()
	in := write(t, s, "chunk.impute_info", "rs_id info", "rs1 x")
	out := filepath.Join(t.TempDir(), "rsids")
	_, err := New(s).ByInfo(context.Background(), in, out, 0.7)
	var pe *tsv.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.False(t, artifact.Exists(out))
}

var summaryHeader = strings.Join([]string{
	"chr", "position", "rs_id_all", "info_all", "certainty_all", "alleleA", "alleleB",
	"cases_maf", "controls_maf", "cohort_1_hwe", "cases_hwe", "controls_hwe", "frequentist_add_pvalue",
}, "\t")

func TestByAll(t *testing.T) {
	s := artifact.NewStore()
	in := write(t, s, "summary.txt.gz", summaryHeader,
		"1\t100\trs1\t0.9\t0.9\tA\tG\t0.2\t0.2\t0.5\t0.5\t0.5\t1e-9",   // kept
		"1\t200\trs2\t0.9\t0.9\tA\tG\t0.001\t0.2\t0.5\t0.5\t0.5\t1e-9", // maf
		"1\t300\trs3\t0.2\t0.9\tA\tG\t0.2\t0.2\t0.5\t0.5\t0.5\t1e-9",   // info
		"1\t400\trs4\t0.9\t0.9\tA\tG\t0.2\t0.2\t1e-9\t0.5\t0.5\t1e-9",  // hwe
		"1\t500\trs5\t0.9\t0.9\tA\tG\tNA\t0.2\t0.5\t0.5\t0.5\t1e-9",    // NA
		"23\t600\trs6\t0.9\t0.9\tA\tG\t0.2\t0.2\tNA\tNA\tNA\t0.3",      // X ignores hwe
	)
	dir := t.TempDir()
	filtered, condensed := filepath.Join(dir, "f.gz"), filepath.Join(dir, "c.gz")
	th := Thresholds{MAF: 0.01, Info: 0.7, HWECohort: 1e-6, HWECases: 1e-6, HWEControls: 1e-6}

	res, err := New(s).ByAll(context.Background(), in, filtered, condensed, "hm3", th)
	require.NoError(t, err)
	assert.Equal(t, AllResult{Rows: 6, Kept: 2}, res)

	f := read(t, filtered)
	assert.Equal(t, summaryHeader+"\trefpanel", f[0])
	require.Len(t, f, 3)
	assert.True(t, strings.HasSuffix(f[1], "\thm3"))
	assert.Equal(t, []string{
		CondensedHeader,
		"1\t100\tA\tG\t1e-9\t0.9",
		"23\t600\tA\tG\t0.3\t0.9",
	}, read(t, condensed))
}

func TestByAllMissingHWEOnAutosome(t *testing.T) {
	s := artifact.NewStore()
	header := "chr\tposition\talleleA\talleleB\tinfo_all\tcases_maf\tcontrols_maf\tfrequentist_add_pvalue"
	in := write(t, s, "x.txt.gz", header, "23\t1\tA\tG\t0.9\t0.2\t0.2\t0.1")
	dir := t.TempDir()
	_, err := New(s).ByAll(context.Background(), in, filepath.Join(dir, "f.gz"), filepath.Join(dir, "c.gz"), "p", Thresholds{})
	require.NoError(t, err)

	in = write(t, s, "a.txt.gz", header, "1\t1\tA\tG\t0.9\t0.2\t0.2\t0.1")
	_, err = New(s).ByAll(context.Background(), in, filepath.Join(dir, "f2.gz"), filepath.Join(dir, "c2.gz"), "p", Thresholds{})
	require.ErrorIs(t, err, tsv.ErrMissingColumn)
	assert.False(t, artifact.Exists(filepath.Join(dir, "f2.gz")))
}

func TestRsIDList(t *testing.T) {
	s := artifact.NewStore()
	bim := write(t, s, "chr1.bim",
		"1\trs1\t0\t100\tA\tT",
		"1\trs2\t0\t200\tA\tG",
		"1\trs3\t0\t300\tC\tG",
	)
	out := filepath.Join(t.TempDir(), "pairs")
	n, err := New(s).RsIDList(context.Background(), bim, FormatBED, true, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"rs1", "rs3"}, read(t, out))

	gen := write(t, s, "chr1.gen", "snp1 rs9 100 G C 1 0 0")
	out = filepath.Join(t.TempDir(), "pairs")
	_, err = New(s).RsIDList(context.Background(), gen, FormatGEN, true, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"rs9"}, read(t, out))

	out = filepath.Join(t.TempDir(), "pairs")
	n, err = New(s).RsIDList(context.Background(), bim, FormatBED, false, out)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, artifact.Exists(out))
}

func TestExcludedSnps(t *testing.T) {
	s := artifact.NewStore()
	haps := write(t, s, "chr1.haps.gz",
		"1 rs1 100 A T 0 1",
		"1 rs2 200 A G 0 1",
		"1 rs3 300 AC G 0 1",
		"1 rs4 400 - G 0 1",
	)
	out := filepath.Join(t.TempDir(), "excl")
	_, err := New(s).ExcludedSnps(context.Background(), haps, out, true, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "300", "400"}, read(t, out))

	out = filepath.Join(t.TempDir(), "excl")
	_, err = New(s).ExcludedSnps(context.Background(), haps, out, true, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"100"}, read(t, out))
}

func TestSnpList(t *testing.T) {
	s := artifact.NewStore()
	haps := write(t, s, "filtered.haps.gz",
		"1 rs1 100 A C 0 1",
		"1 rs2 200 A G 1 1",
	)
	out := filepath.Join(t.TempDir(), "snps.txt")
	n, err := New(s).SnpList(context.Background(), haps, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"rs1", "rs2"}, read(t, out))
}

func TestParseInputFormat(t *testing.T) {
	f, err := ParseInputFormat("bed")
	require.NoError(t, err)
	assert.Equal(t, FormatBED, f)
	_, err = ParseInputFormat("vcf")
	require.Error(t, err)
}
