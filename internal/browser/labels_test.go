package browser

import "testing"

func TestDiscoverLabels(t *testing.T) {
	html := `<html><body>
		<ul class="tabs">
			<li><a href="#">Court 1</a></li>
			<li><a href="#">Court 2</a></li>
			<li><a href="#">Court 2</a></li>
			<li><a href="#">第3コート</a></li>
		</ul>
		<div>Booking instructions for all courts, none of which is a tab label here.</div>
	</body></html>`

	labels := DiscoverLabels(html)
	if len(labels) != 3 {
		t.Fatalf("got %d labels %v, expected 3 deduplicated", len(labels), labels)
	}
	if labels[0] != "Court 1" || labels[1] != "Court 2" || labels[2] != "第3コート" {
		t.Errorf("labels = %v, expected document order", labels)
	}
}

func TestDiscoverLabelsCap(t *testing.T) {
	html := "<ul>"
	for i := 1; i <= 12; i++ {
		html += "<li>Court " + string(rune('0'+i%10)) + string(rune('A'+i)) + "</li>"
	}
	html += "</ul>"

	labels := DiscoverLabels(html)
	if len(labels) > MaxLabelCandidates {
		t.Errorf("got %d labels, expected cap at %d", len(labels), MaxLabelCandidates)
	}
}

func TestDiscoverLabelsNone(t *testing.T) {
	labels := DiscoverLabels("<html><body><p>No schedule is published.</p></body></html>")
	if len(labels) != 0 {
		t.Errorf("labels = %v, expected none", labels)
	}
}

func TestDiscoverLabelsIgnoresLongText(t *testing.T) {
	html := `<div><span>Please proceed to Court 1 via the north gate after checking in at the front desk</span></div>`
	labels := DiscoverLabels(html)
	if len(labels) != 0 {
		t.Errorf("labels = %v, expected long prose to be skipped", labels)
	}
}
