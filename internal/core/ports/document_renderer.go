package ports

import "potrack/internal/core/domain/model/po"

// DocumentRenderer is the outbound boundary to document generation. The core
// hands over full, consistent snapshots and receives an opaque byte stream;
// layout is entirely the renderer's concern.
type DocumentRenderer interface {
	// RenderPO produces the downloadable summary document for a whole PO.
	RenderPO(aggregate *po.PO) ([]byte, error)

	// RenderChallan produces the delivery challan for one machine. The
	// machine must belong to the given PO and have a challan number issued.
	RenderChallan(aggregate *po.PO, machine *po.Machine) ([]byte, error)
}
