package report

import (
	"reflect"
	"testing"

	"github.com/verte-zerg/shukong/internal/model"
)

func TestTopCharacters(t *testing.T) {
	records := []model.HistoryRecord{
		{Query: "山水", Count: 3},
		{Query: "水火", Count: 2},
		{Query: "木", Count: 2},
	}
	got := TopCharacters(records, 3)
	want := []string{"水", "山", "木"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if TopCharacters(records, 0) != nil {
		t.Fatalf("expected nil for n=0")
	}
}
