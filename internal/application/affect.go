package application

import (
	"sort"
	"sync"

	"github.com/bnema/sentra-emo/internal/domain"
)

// maxUnknownLabels bounds the unknown label registry; labels past the cap are not recorded.
const maxUnknownLabels = 256

// Affect is everything derived from one raw emotion output.
type Affect struct {
	Emotions domain.Distribution
	Top      domain.LabelScore
	VAD      domain.VAD
	PAD      domain.PAD
	Stress   domain.StressResult
}

// AffectDeriver canonicalizes raw emotion scores and derives VAD, PAD and stress from them.
// It also remembers labels that the VAD table does not know.
type AffectDeriver struct {
	canon  domain.Canonicalizer
	table  domain.VADTable
	stress domain.StressConfig

	mu      sync.Mutex
	unknown map[string]int
}

func NewAffectDeriver(canon domain.Canonicalizer, table domain.VADTable, stress domain.StressConfig) *AffectDeriver {
	if table == nil {
		table = domain.VADTable{}
	}

	return &AffectDeriver{canon: canon, table: table, stress: stress, unknown: map[string]int{}}
}

func (d *AffectDeriver) Derive(raw []domain.LabelScore) Affect {
	emotions := d.canon.Apply(raw)
	vad := domain.DeriveVAD(emotions, d.table, domain.NeutralVAD)
	top, _ := emotions.Top()

	d.recordUnknown(domain.UnknownLabels(emotions, d.table))

	return Affect{
		Emotions: emotions,
		Top:      top,
		VAD:      vad,
		PAD:      vad.PAD(),
		Stress:   d.stress.Derive(vad, emotions, d.table),
	}
}

func (d *AffectDeriver) recordUnknown(labels []string) {
	if len(labels) == 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, label := range labels {
		if _, seen := d.unknown[label]; !seen && len(d.unknown) >= maxUnknownLabels {
			continue
		}
		d.unknown[label]++
	}
}

// UnknownLabels returns the labels seen without a VAD entry, sorted.
func (d *AffectDeriver) UnknownLabels() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	labels := make([]string, 0, len(d.unknown))
	for label := range d.unknown {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	return labels
}

func (d *AffectDeriver) TableSize() int {
	return len(d.table)
}

func (d *AffectDeriver) AliasCount() int {
	return len(d.canon.Aliases)
}
