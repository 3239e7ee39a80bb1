package web

import (
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/r3dgo/r3d/config"
	"github.com/r3dgo/r3d/status"
	"github.com/r3dgo/r3d/utils"
	"github.com/r3dgo/r3d/webutils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func HandlerStats(s *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		webutils.WriteJson(w, s.Stats())
	}
}

func HandlerScene(s *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scene := s.Scene()
		if scene == nil {
			scene = []NodeInfo{}
		}
		webutils.WriteJson(w, scene)
	}
}

func HandlerSceneNode(s *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		param := mux.Vars(r)["id"]
		id, err := uuid.Parse(param)
		if err != nil {
			webutils.WriteErrorCode(w, http.StatusBadRequest, errors.Wrapf(err, "Invalid node id %q", param))
			return
		}
		node := findNode(s.Scene(), id)
		if node == nil {
			webutils.WriteErrorCode(w, http.StatusNotFound, errors.Errorf("Node %v not found", id))
			return
		}
		webutils.WriteJson(w, node)
	}
}

func HandlerDumpScene(s *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		webutils.WriteFile(w, strings.NewReader(utils.SDump(s.Scene())), "scene.txt")
	}
}

func HandlerConfig(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, config.GetViewer())
}

func HandlerStatusSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	status.NewClient(conn)
}
