package pointio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/TrevorS/cluster2d"
)

// ClusterRecord is the JSON form of one cluster.
type ClusterRecord struct {
	Label    string            `json:"label"`
	Noise    bool              `json:"noise,omitempty"`
	Centroid *[2]float64       `json:"centroid,omitempty"`
	Points   [][2]float64      `json:"points"`
	Summary  cluster2d.Summary `json:"summary"`
}

func newRecord(label string, c *cluster2d.Cluster) ClusterRecord {
	pts := make([][2]float64, len(c.Points))
	for i, p := range c.Points {
		pts[i] = [2]float64{p.X, p.Y}
	}
	return ClusterRecord{Label: label, Points: pts, Summary: c.Summary()}
}

// DBSCANRecords labels clusters Cluster-0, Cluster-1, ... and the noise
// cluster NOISE.
func DBSCANRecords(clusters []cluster2d.DBSCANCluster) []ClusterRecord {
	out := make([]ClusterRecord, 0, len(clusters))
	for i := range clusters {
		c := &clusters[i]
		label := fmt.Sprintf("Cluster-%d", i)
		if c.Noise {
			label = "NOISE"
		}
		rec := newRecord(label, &c.Cluster)
		rec.Noise = c.Noise
		out = append(out, rec)
	}
	return out
}

// KMeansRecords labels clusters Cluster k-0, Cluster k-1, ... and includes
// each centroid.
func KMeansRecords(clusters []cluster2d.KMeansCluster) []ClusterRecord {
	out := make([]ClusterRecord, 0, len(clusters))
	for i := range clusters {
		c := &clusters[i]
		rec := newRecord(fmt.Sprintf("Cluster k-%d", i), &c.Cluster)
		rec.Centroid = &[2]float64{c.Centroid.X, c.Centroid.Y}
		out = append(out, rec)
	}
	return out
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []ClusterRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("write clusters: %w", err)
	}
	return nil
}
