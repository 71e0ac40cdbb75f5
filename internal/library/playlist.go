package library

// NodeKind distinguishes the two playlist tree variants.
type NodeKind string

const (
	NodeFolder   NodeKind = "folder"
	NodePlaylist NodeKind = "playlist"
)

// PlaylistNode is a tagged variant: a Folder carries Children, a Playlist
// carries TrackRefs (canonical track keys, in playing order).
type PlaylistNode struct {
	Kind      NodeKind        `json:"kind"`
	Name      string          `json:"name"`
	Children  []*PlaylistNode `json:"children,omitempty"`
	TrackRefs []string        `json:"track_refs,omitempty"`
}

// NewFolder returns an empty folder node.
func NewFolder(name string) *PlaylistNode {
	return &PlaylistNode{Kind: NodeFolder, Name: name}
}

// NewPlaylist returns an empty playlist node.
func NewPlaylist(name string) *PlaylistNode {
	return &PlaylistNode{Kind: NodePlaylist, Name: name}
}

// AddChild appends a child node to a folder.
func (n *PlaylistNode) AddChild(child *PlaylistNode) {
	n.Children = append(n.Children, child)
}

// Walk visits n and every descendant depth-first, passing the folder path
// leading to each node (root excluded). It is the shared traversal used by
// writers that need to flatten or fold the tree.
func (n *PlaylistNode) Walk(visit func(path []string, node *PlaylistNode)) {
	var rec func(path []string, node *PlaylistNode)
	rec = func(path []string, node *PlaylistNode) {
		visit(path, node)
		if node.Kind == NodeFolder {
			child := append(append([]string{}, path...), node.Name)
			for _, c := range node.Children {
				rec(child, c)
			}
		}
	}
	for _, c := range n.Children {
		rec(nil, c)
	}
}

// Playlists returns every playlist node in the tree in depth-first order,
// each with the names of the folders above it (implicit root excluded).
func (n *PlaylistNode) Playlists() []FlatPlaylist {
	var out []FlatPlaylist
	n.Walk(func(path []string, node *PlaylistNode) {
		if node.Kind == NodePlaylist {
			out = append(out, FlatPlaylist{FolderPath: path, Node: node})
		}
	})
	return out
}

// FlatPlaylist pairs a playlist with the folder names above it.
type FlatPlaylist struct {
	FolderPath []string
	Node       *PlaylistNode
}
