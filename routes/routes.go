package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"sproutly.dev/garden/handlers"
	"sproutly.dev/garden/middleware"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(db *gorm.DB) http.Handler {
	r := mux.NewRouter()

	auth := handlers.NewAuthHandler(db)

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/register", auth.Register).Methods("POST")
	r.HandleFunc("/login", auth.Login).Methods("POST")
	r.HandleFunc("/weather", handlers.WeatherProxy).Methods("POST")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.SecurityMiddleware)
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/profile", auth.Profile).Methods("GET")

	// Client directory
	clients := handlers.NewClientHandler(db)
	registerCRUDRoutes(api, "/clients", crudHandlers{
		getAll: clients.GetAllClients,
		create: clients.CreateClient,
		getOne: clients.GetClient,
		update: clients.UpdateClient,
		delete: clients.DeleteClient,
	})

	// Garden zones and plant associations
	zones := handlers.NewZoneHandler(db)
	registerCRUDRoutes(api, "/zones", crudHandlers{
		getAll: zones.GetAllZones,
		create: zones.CreateZone,
		getOne: zones.GetZone,
		update: zones.UpdateZone,
		delete: zones.DeleteZone,
	})
	api.HandleFunc("/zones/{id}/plants", zones.SetZonePlants).Methods("PUT")
	api.HandleFunc("/zones/{id}/watered", zones.MarkWatered).Methods("PUT")

	// Plant catalog (read-only)
	plants := handlers.NewPlantMaterialHandler(db)
	api.HandleFunc("/plant-material", plants.GetCatalog).Methods("GET")
	api.HandleFunc("/plant-material/{id}", plants.GetPlant).Methods("GET")

	// Tasks
	tasks := handlers.NewTaskHandler(db)
	registerCRUDRoutes(api, "/tasks", crudHandlers{
		getAll: tasks.GetAllTasks,
		create: tasks.CreateTask,
		getOne: tasks.GetTask,
		update: tasks.UpdateTask,
		delete: tasks.DeleteTask,
	})
	api.HandleFunc("/tasks/{id}/complete", tasks.CompleteTask).Methods("PUT")

	// Visits
	visits := handlers.NewVisitHandler(db)
	api.HandleFunc("/visits/route-plan", visits.RoutePlan).Methods("GET")
	registerCRUDRoutes(api, "/visits", crudHandlers{
		getAll: visits.GetAllVisits,
		create: visits.CreateVisit,
		getOne: visits.GetVisit,
		update: visits.UpdateVisit,
		delete: visits.DeleteVisit,
	})

	// Photos
	photos := handlers.NewPhotoHandler(db)
	api.HandleFunc("/photos/upload", photos.UploadPhoto).Methods("POST")
	registerCRUDRoutes(api, "/photos", crudHandlers{
		getAll: photos.GetAllPhotos,
		create: photos.CreatePhoto,
		getOne: photos.GetPhoto,
		update: photos.UpdatePhoto,
		delete: photos.DeletePhoto,
	})

	// Dashboard and exports
	dashboard := handlers.NewDashboardHandler(db)
	api.HandleFunc("/dashboard", dashboard.GetDashboard).Methods("GET")
	exports := handlers.NewExportHandler(db)
	api.HandleFunc("/export/clients.xlsx", exports.ExportClients).Methods("GET")
	api.HandleFunc("/export/tasks.xlsx", exports.ExportTasks).Methods("GET")

	return r
}

type crudHandlers struct {
	getAll func(http.ResponseWriter, *http.Request)
	create func(http.ResponseWriter, *http.Request)
	getOne func(http.ResponseWriter, *http.Request)
	update func(http.ResponseWriter, *http.Request)
	delete func(http.ResponseWriter, *http.Request)
}

// registerCRUDRoutes registers standard CRUD routes for a resource
func registerCRUDRoutes(router *mux.Router, path string, h crudHandlers) {
	router.HandleFunc(path, h.getAll).Methods("GET")
	router.HandleFunc(path, h.create).Methods("POST")
	router.HandleFunc(path+"/{id}", h.getOne).Methods("GET")
	router.HandleFunc(path+"/{id}", h.update).Methods("PUT")
	router.HandleFunc(path+"/{id}", h.delete).Methods("DELETE")
}
