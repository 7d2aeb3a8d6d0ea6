package kvtest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) listJSON(c *gin.Context, field string, items []string) {
	if s.opts.ListStyle == ListEnvelope {
		c.JSON(http.StatusOK, gin.H{field: items})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) listBuckets(c *gin.Context) {
	s.listJSON(c, "buckets", tenant(c).bucketNames())
}

func (s *Server) createBucket(c *gin.Context) {
	tenant(c).createBucket(c.Param("bucket"))
	c.Status(http.StatusOK)
}

func (s *Server) deleteBucket(c *gin.Context) {
	if !tenant(c).deleteBucket(c.Param("bucket")) {
		c.String(http.StatusNotFound, "Bucket not found")
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) listKeys(c *gin.Context) {
	keys, ok := tenant(c).keys(c.Param("bucket"))
	if !ok {
		c.String(http.StatusNotFound, "Bucket not found")
		return
	}
	s.listJSON(c, "keys", keys)
}

func (s *Server) putValue(c *gin.Context) {
	body := requestBody(c)
	if !json.Valid(body) {
		c.String(http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !tenant(c).put(c.Param("bucket"), c.Param("key"), body) {
		c.String(http.StatusNotFound, "Bucket not found")
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) getValue(c *gin.Context) {
	v, bucketFound, keyFound := tenant(c).get(c.Param("bucket"), c.Param("key"))
	switch {
	case !bucketFound:
		c.String(http.StatusNotFound, "Bucket not found")
	case !keyFound:
		c.String(http.StatusNotFound, "Key not found")
	default:
		c.Data(http.StatusOK, "application/json", v)
	}
}

func (s *Server) deleteValue(c *gin.Context) {
	if !tenant(c).delete(c.Param("bucket"), c.Param("key")) {
		c.String(http.StatusNotFound, "Bucket not found")
		return
	}
	c.Status(http.StatusOK)
}

type adminRequest struct {
	Name string `json:"name"`
}

func parseAdminRequest(c *gin.Context) (string, bool) {
	var req adminRequest
	if err := json.Unmarshal(requestBody(c), &req); err != nil || req.Name == "" {
		c.String(http.StatusBadRequest, "name is required")
		return "", false
	}
	return req.Name, true
}

func newAPIKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *Server) createKV(c *gin.Context) {
	name, ok := parseAdminRequest(c)
	if !ok {
		return
	}
	s.mu.Lock()
	if _, exists := s.names[name]; exists {
		s.mu.Unlock()
		c.String(http.StatusConflict, "Name already exists")
		return
	}
	key := newAPIKey()
	s.names[name] = key
	s.tenants[key] = newStore()
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"api_key": key})
}

func (s *Server) changeAPIKey(c *gin.Context) {
	name, ok := parseAdminRequest(c)
	if !ok {
		return
	}
	s.mu.Lock()
	old, exists := s.names[name]
	if !exists {
		s.mu.Unlock()
		c.String(http.StatusNotFound, "Name not found")
		return
	}
	key := newAPIKey()
	s.names[name] = key
	s.tenants[key] = s.tenants[old]
	delete(s.tenants, old)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"api_key": key})
}
