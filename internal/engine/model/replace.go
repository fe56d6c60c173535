package model

func replace(rFrom, rTo *ResolvedPos, slice *Slice) (*Node, error) {
	if slice.OpenStart > rFrom.Depth {
		return nil, replaceErrorf("inserted content deeper than insertion position")
	}
	if rFrom.Depth-slice.OpenStart != rTo.Depth-slice.OpenEnd {
		return nil, replaceErrorf("inconsistent open depths")
	}
	return replaceOuter(rFrom, rTo, slice, 0)
}

func replaceOuter(rFrom, rTo *ResolvedPos, slice *Slice, depth int) (*Node, error) {
	index, node := rFrom.Index(depth), rFrom.Node(depth)
	switch {
	case index == rTo.Index(depth) && depth < rFrom.Depth-slice.OpenStart:
		inner, err := replaceOuter(rFrom, rTo, slice, depth+1)
		if err != nil {
			return nil, err
		}
		return node.Copy(node.content.ReplaceChild(index, inner)), nil
	case slice.Content.Size() == 0:
		content, err := replaceTwoWay(rFrom, rTo, depth)
		if err != nil {
			return nil, err
		}
		return closeNode(node, content)
	case slice.OpenStart == 0 && slice.OpenEnd == 0 && rFrom.Depth == depth && rTo.Depth == depth:
		parent := rFrom.Parent()
		content := parent.content
		joined := content.Cut(0, rFrom.ParentOffset).Append(slice.Content).Append(content.Cut(rTo.ParentOffset, content.Size()))
		return closeNode(parent, joined)
	default:
		start, end := prepareSliceForReplace(slice, rFrom)
		content, err := replaceThreeWay(rFrom, start, end, rTo, depth)
		if err != nil {
			return nil, err
		}
		return closeNode(node, content)
	}
}

func checkJoin(main, sub *Node) error {
	if !sub.typ.CompatibleContent(main.typ) {
		return replaceErrorf("cannot join %s onto %s", sub.typ.Name, main.typ.Name)
	}
	return nil
}

func joinable(before, after *ResolvedPos, depth int) (*Node, error) {
	node := before.Node(depth)
	if err := checkJoin(node, after.Node(depth)); err != nil {
		return nil, err
	}
	return node, nil
}

func addNode(child *Node, target []*Node) []*Node {
	if last := len(target) - 1; last >= 0 && child.IsText() && child.SameMarkup(target[last]) {
		target[last] = child.WithText(target[last].text + child.text)
		return target
	}
	return append(target, child)
}

// addRange appends the children of the node at depth lying between start
// and end. A nil bound means the edge of the node.
func addRange(start, end *ResolvedPos, depth int, target []*Node) []*Node {
	along := end
	if along == nil {
		along = start
	}
	node := along.Node(depth)
	startIndex, endIndex := 0, node.ChildCount()
	if end != nil {
		endIndex = end.Index(depth)
	}
	if start != nil {
		startIndex = start.Index(depth)
		if start.Depth > depth {
			startIndex++
		} else if start.TextOffset() > 0 {
			target = addNode(start.NodeAfter(), target)
			startIndex++
		}
	}
	for i := startIndex; i < endIndex; i++ {
		target = addNode(node.Child(i), target)
	}
	if end != nil && end.Depth == depth && end.TextOffset() > 0 {
		target = addNode(end.NodeBefore(), target)
	}
	return target
}

func closeNode(node *Node, content *Fragment) (*Node, error) {
	if !node.typ.ValidContent(content) {
		return nil, replaceErrorf("invalid content for %s: %s", node.typ.Name, content)
	}
	return node.Copy(content), nil
}

func replaceThreeWay(rFrom, rStart, rEnd, rTo *ResolvedPos, depth int) (*Fragment, error) {
	var openStart, openEnd *Node
	var err error
	if rFrom.Depth > depth {
		if openStart, err = joinable(rFrom, rStart, depth+1); err != nil {
			return nil, err
		}
	}
	if rTo.Depth > depth {
		if openEnd, err = joinable(rEnd, rTo, depth+1); err != nil {
			return nil, err
		}
	}

	content := addRange(nil, rFrom, depth, nil)
	if openStart != nil && openEnd != nil && rStart.Index(depth) == rEnd.Index(depth) {
		if err := checkJoin(openStart, openEnd); err != nil {
			return nil, err
		}
		inner, err := replaceThreeWay(rFrom, rStart, rEnd, rTo, depth+1)
		if err != nil {
			return nil, err
		}
		closed, err := closeNode(openStart, inner)
		if err != nil {
			return nil, err
		}
		content = addNode(closed, content)
	} else {
		if openStart != nil {
			inner, err := replaceTwoWay(rFrom, rStart, depth+1)
			if err != nil {
				return nil, err
			}
			closed, err := closeNode(openStart, inner)
			if err != nil {
				return nil, err
			}
			content = addNode(closed, content)
		}
		content = addRange(rStart, rEnd, depth, content)
		if openEnd != nil {
			inner, err := replaceTwoWay(rEnd, rTo, depth+1)
			if err != nil {
				return nil, err
			}
			closed, err := closeNode(openEnd, inner)
			if err != nil {
				return nil, err
			}
			content = addNode(closed, content)
		}
	}
	content = addRange(rTo, nil, depth, content)
	return NewFragment(content), nil
}

func replaceTwoWay(rFrom, rTo *ResolvedPos, depth int) (*Fragment, error) {
	content := addRange(nil, rFrom, depth, nil)
	if rFrom.Depth > depth {
		typ, err := joinable(rFrom, rTo, depth+1)
		if err != nil {
			return nil, err
		}
		inner, err := replaceTwoWay(rFrom, rTo, depth+1)
		if err != nil {
			return nil, err
		}
		closed, err := closeNode(typ, inner)
		if err != nil {
			return nil, err
		}
		content = addNode(closed, content)
	}
	content = addRange(rTo, nil, depth, content)
	return NewFragment(content), nil
}

// prepareSliceForReplace wraps the slice in copies of the ancestors of
// along so its open sides can be resolved like document positions.
func prepareSliceForReplace(slice *Slice, along *ResolvedPos) (start, end *ResolvedPos) {
	extra := along.Depth - slice.OpenStart
	node := along.Node(extra).Copy(slice.Content)
	for i := extra - 1; i >= 0; i-- {
		node = along.Node(i).Copy(FragmentFrom(node))
	}
	return node.Resolve(slice.OpenStart + extra), node.Resolve(node.content.Size() - slice.OpenEnd - extra)
}
