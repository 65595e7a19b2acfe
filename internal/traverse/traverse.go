// Package traverse walks an inferior's threads and interpreter frames
// looking for one that satisfies a predicate, grounded on
// original_source/shamiko/session_utils.py's visit/traverse_frame.
package traverse

import "github.com/leonletto/pyprobe/internal/proxy/remote"

// ThreadPredicate decides whether a thread should be visited at all.
type ThreadPredicate func(*remote.Thread) (bool, error)

// FramePredicate decides whether a frame should be visited, and
// separately whether it is "the" match (Visit's frame_predicate has a
// second meaning: returning true stops the whole walk).
type FramePredicate func(*remote.Frame) (bool, error)

// Visit walks every thread accepted by visitThread, switches to it,
// walks every frame accepted by visitFrame, and stops at the first frame
// for which match returns true. It reports whether any frame matched.
func Visit(inferior *remote.Inferior, visitThread ThreadPredicate, visitFrame FramePredicate, match FramePredicate) (bool, error) {
	threads, err := inferior.Threads()
	if err != nil {
		return false, err
	}
	for _, thread := range threads {
		ok, err := visitThread(thread)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}

		if err := thread.Switch(); err != nil {
			return false, err
		}

		frames, err := thread.GetPythonFrames()
		if err != nil {
			return false, err
		}
		for _, frame := range frames {
			ok, err := visitFrame(frame)
			if err != nil {
				return false, err
			}
			if !ok {
				continue
			}

			matched, err := match(frame)
			if err != nil {
				return false, err
			}
			if matched {
				return true, nil
			}
		}
	}
	return false, nil
}

// Filter narrows Visit to an optional thread global-number and an
// optional frame index, the shape traverse_frame builds in the source
// lineage: nil means "accept everything".
type Filter struct {
	ThreadID *int64
	FrameIdx *int64
}

// TraverseFrame applies a Filter on top of Visit against predicate,
// which decides success for a frame that passed the filter.
func TraverseFrame(inferior *remote.Inferior, filter Filter, predicate FramePredicate) (bool, error) {
	visitThread := func(t *remote.Thread) (bool, error) {
		if filter.ThreadID == nil {
			return true, nil
		}
		return t.Key() == *filter.ThreadID, nil
	}
	visitFrame := func(f *remote.Frame) (bool, error) {
		if filter.FrameIdx == nil {
			return true, nil
		}
		idx, err := f.GetIndex()
		if err != nil {
			return false, err
		}
		return idx == *filter.FrameIdx, nil
	}
	return Visit(inferior, visitThread, visitFrame, predicate)
}
