package ui

import (
	"os"
	"strings"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyOptions           = "options"
	KeyQuit              = "quit"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeyStop              = "stop"
	KeyRemove            = "remove"
	KeyOutput            = "output"
	KeyClose             = "close"
	KeyError             = "error"
	KeySuccess           = "success"
	KeyTabLocal          = "tab_local"
	KeyTabSearch         = "tab_search"
	KeyTabNew            = "tab_new"
	KeyJobs              = "jobs"
	KeyPackagePath       = "package_path"
	KeyName              = "name"
	KeyVersion           = "version"
	KeyAuthor            = "author"
	KeyDescription       = "description"
	KeyLicense           = "license"
	KeyWorkspace         = "workspace"
	KeyVirtualWorkspace  = "virtual_workspace"
	KeyBuild             = "build"
	KeyTest              = "test"
	KeyBench             = "bench"
	KeyDoc               = "doc"
	KeyRun               = "run"
	KeyRunArgs           = "run_args"
	KeyPublish           = "publish"
	KeyUpdate            = "update"
	KeyOpenDocs          = "open_docs"
	KeyOpenFolder        = "open_folder"
	KeyInstall           = "install"
	KeyCreate            = "create"
	KeySearchPlaceholder = "search_placeholder"
	KeySearching         = "searching"
	KeySearchFailed      = "search_failed"
	KeyNoResults         = "no_results"
	KeyResultsFound      = "results_found"
	KeySortBy            = "sort_by"
	KeyColumnPackage     = "column_package"
	KeyColumnDescription = "column_description"
	KeyColumnVersion     = "column_version"
	KeyColumnDownloads   = "column_downloads"
	KeySelectCrate       = "select_crate"
	KeyParentFolder      = "parent_folder"
	KeyPackageName       = "package_name"
	KeyPackageType       = "package_type"
	KeyVersionControl    = "version_control"
	KeyEdition           = "edition"
	KeyJobsCount         = "jobs_count"
	KeyTarget            = "target"
	KeyFeatures          = "features"
	KeyNoDefaultFeatures = "no_default_features"
	KeyAllFeatures       = "all_features"
	KeyPackageSpec       = "package_spec"
	KeyRelease           = "release"
	KeyOffline           = "offline"
	KeyMaxParallel       = "max_parallel"
	KeyShowSuccess       = "show_success"
	KeyCompileSection    = "compile_section"
	KeyInterfaceSection  = "interface_section"
	KeySettingsSaved     = "settings_saved"
	KeyActionFailed      = "action_failed"
	KeyActionSucceeded   = "action_succeeded"
	KeyAlreadyRunning    = "already_running"
	KeyNoPackage         = "no_package"
	KeyManifestError     = "manifest_error"
	KeyDocsNotBuilt      = "docs_not_built"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyPleaseEnterPath   = "please_enter_path"
	KeyJobQueued         = "job_queued"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. "system" picks the language from
// LC_ALL, LC_MESSAGES or LANG and falls back to English.
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = systemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

func systemLanguage() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(env)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if len(v) >= 2 {
			return strings.ToLower(v[:2])
		}
	}
	return "en"
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "Cargo Manager",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyOptions:           "Options",
		KeyQuit:              "Quit",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeyStop:              "Stop",
		KeyRemove:            "Remove",
		KeyOutput:            "Output",
		KeyClose:             "Close",
		KeyError:             "Error",
		KeySuccess:           "Success",
		KeyTabLocal:          "Local Package",
		KeyTabSearch:         "Online Search",
		KeyTabNew:            "New Package",
		KeyJobs:              "Jobs",
		KeyPackagePath:       "Package folder or Cargo.toml",
		KeyName:              "Name",
		KeyVersion:           "Version",
		KeyAuthor:            "Author",
		KeyDescription:       "Description",
		KeyLicense:           "License",
		KeyWorkspace:         "Workspace",
		KeyVirtualWorkspace:  "Virtual workspace manifest",
		KeyBuild:             "Build",
		KeyTest:              "Test",
		KeyBench:             "Bench",
		KeyDoc:               "Doc",
		KeyRun:               "Run",
		KeyRunArgs:           "Program arguments",
		KeyPublish:           "Publish",
		KeyUpdate:            "Update",
		KeyOpenDocs:          "Open docs",
		KeyOpenFolder:        "Open folder",
		KeyInstall:           "Install",
		KeyCreate:            "Create",
		KeySearchPlaceholder: "Search crates.io (press Enter)",
		KeySearching:         "Searching...",
		KeySearchFailed:      "Search failed",
		KeyNoResults:         "No crates found",
		KeyResultsFound:      "Showing %d of %d crates",
		KeySortBy:            "Sort by",
		KeyColumnPackage:     "Package",
		KeyColumnDescription: "Description",
		KeyColumnVersion:     "Version",
		KeyColumnDownloads:   "Downloads",
		KeySelectCrate:       "Select a crate first",
		KeyParentFolder:      "Location",
		KeyPackageName:       "Package name",
		KeyPackageType:       "Type",
		KeyVersionControl:    "Version control",
		KeyEdition:           "Edition",
		KeyJobsCount:         "Parallel rustc jobs",
		KeyTarget:            "Target triple",
		KeyFeatures:          "Features",
		KeyNoDefaultFeatures: "No default features",
		KeyAllFeatures:       "All features",
		KeyPackageSpec:       "Packages (-p)",
		KeyRelease:           "Release",
		KeyOffline:           "Offline",
		KeyMaxParallel:       "Max parallel actions",
		KeyShowSuccess:       "Show a dialog when an action succeeds",
		KeyCompileSection:    "Compile Options",
		KeyInterfaceSection:  "Interface",
		KeySettingsSaved:     "Options saved",
		KeyActionFailed:      "Failed to %s",
		KeyActionSucceeded:   "Finished %s",
		KeyAlreadyRunning:    "This action is already running for the package",
		KeyNoPackage:         "Open a package first",
		KeyManifestError:     "Cannot read Cargo.toml",
		KeyDocsNotBuilt:      "Documentation has not been built yet. Run Doc first.",
		KeyErrorOpeningFile:  "Error opening file",
		KeyPleaseEnterPath:   "Please choose a folder",
		KeyJobQueued:         "Queued: %s",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "Cargo Менеджер",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyOptions:           "Параметры",
		KeyQuit:              "Выход",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeyStop:              "Стоп",
		KeyRemove:            "Убрать",
		KeyOutput:            "Вывод",
		KeyClose:             "Закрыть",
		KeyError:             "Ошибка",
		KeySuccess:           "Готово",
		KeyTabLocal:          "Локальный пакет",
		KeyTabSearch:         "Поиск",
		KeyTabNew:            "Новый пакет",
		KeyJobs:              "Задачи",
		KeyPackagePath:       "Папка пакета или Cargo.toml",
		KeyName:              "Имя",
		KeyVersion:           "Версия",
		KeyAuthor:            "Автор",
		KeyDescription:       "Описание",
		KeyLicense:           "Лицензия",
		KeyWorkspace:         "Рабочее пространство",
		KeyVirtualWorkspace:  "Виртуальный манифест рабочего пространства",
		KeyBuild:             "Собрать",
		KeyTest:              "Тесты",
		KeyBench:             "Бенчмарки",
		KeyDoc:               "Документация",
		KeyRun:               "Запустить",
		KeyRunArgs:           "Аргументы программы",
		KeyPublish:           "Опубликовать",
		KeyUpdate:            "Обновить",
		KeyOpenDocs:          "Открыть документацию",
		KeyOpenFolder:        "Открыть папку",
		KeyInstall:           "Установить",
		KeyCreate:            "Создать",
		KeySearchPlaceholder: "Поиск на crates.io (Enter)",
		KeySearching:         "Поиск...",
		KeySearchFailed:      "Ошибка поиска",
		KeyNoResults:         "Ничего не найдено",
		KeyResultsFound:      "Показано %d из %d",
		KeySortBy:            "Сортировка",
		KeyColumnPackage:     "Пакет",
		KeyColumnDescription: "Описание",
		KeyColumnVersion:     "Версия",
		KeyColumnDownloads:   "Загрузки",
		KeySelectCrate:       "Сначала выберите пакет",
		KeyParentFolder:      "Расположение",
		KeyPackageName:       "Имя пакета",
		KeyPackageType:       "Тип",
		KeyVersionControl:    "Система контроля версий",
		KeyEdition:           "Редакция",
		KeyJobsCount:         "Параллельных задач rustc",
		KeyTarget:            "Целевая платформа",
		KeyFeatures:          "Возможности",
		KeyNoDefaultFeatures: "Без возможностей по умолчанию",
		KeyAllFeatures:       "Все возможности",
		KeyPackageSpec:       "Пакеты (-p)",
		KeyRelease:           "Релиз",
		KeyOffline:           "Офлайн",
		KeyMaxParallel:       "Макс. параллельных действий",
		KeyShowSuccess:       "Показывать диалог при успешном завершении",
		KeyCompileSection:    "Параметры сборки",
		KeyInterfaceSection:  "Интерфейс",
		KeySettingsSaved:     "Параметры сохранены",
		KeyActionFailed:      "Не удалось выполнить %s",
		KeyActionSucceeded:   "Выполнено: %s",
		KeyAlreadyRunning:    "Это действие уже выполняется для пакета",
		KeyNoPackage:         "Сначала откройте пакет",
		KeyManifestError:     "Не удалось прочитать Cargo.toml",
		KeyDocsNotBuilt:      "Документация ещё не собрана. Сначала выполните сборку документации.",
		KeyErrorOpeningFile:  "Ошибка открытия файла",
		KeyPleaseEnterPath:   "Пожалуйста, выберите папку",
		KeyJobQueued:         "В очереди: %s",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "Cargo Manager",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyOptions:           "Opções",
		KeyQuit:              "Sair",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeyStop:              "Parar",
		KeyRemove:            "Remover",
		KeyOutput:            "Saída",
		KeyClose:             "Fechar",
		KeyError:             "Erro",
		KeySuccess:           "Sucesso",
		KeyTabLocal:          "Pacote Local",
		KeyTabSearch:         "Busca Online",
		KeyTabNew:            "Novo Pacote",
		KeyJobs:              "Tarefas",
		KeyPackagePath:       "Pasta do pacote ou Cargo.toml",
		KeyName:              "Nome",
		KeyVersion:           "Versão",
		KeyAuthor:            "Autor",
		KeyDescription:       "Descrição",
		KeyLicense:           "Licença",
		KeyWorkspace:         "Workspace",
		KeyVirtualWorkspace:  "Manifesto de workspace virtual",
		KeyBuild:             "Compilar",
		KeyTest:              "Testar",
		KeyBench:             "Benchmark",
		KeyDoc:               "Documentação",
		KeyRun:               "Executar",
		KeyRunArgs:           "Argumentos do programa",
		KeyPublish:           "Publicar",
		KeyUpdate:            "Atualizar",
		KeyOpenDocs:          "Abrir documentação",
		KeyOpenFolder:        "Abrir pasta",
		KeyInstall:           "Instalar",
		KeyCreate:            "Criar",
		KeySearchPlaceholder: "Buscar no crates.io (Enter)",
		KeySearching:         "Buscando...",
		KeySearchFailed:      "Falha na busca",
		KeyNoResults:         "Nenhum crate encontrado",
		KeyResultsFound:      "Mostrando %d de %d crates",
		KeySortBy:            "Ordenar por",
		KeyColumnPackage:     "Pacote",
		KeyColumnDescription: "Descrição",
		KeyColumnVersion:     "Versão",
		KeyColumnDownloads:   "Downloads",
		KeySelectCrate:       "Selecione um crate primeiro",
		KeyParentFolder:      "Local",
		KeyPackageName:       "Nome do pacote",
		KeyPackageType:       "Tipo",
		KeyVersionControl:    "Controle de versão",
		KeyEdition:           "Edição",
		KeyJobsCount:         "Tarefas paralelas do rustc",
		KeyTarget:            "Plataforma alvo",
		KeyFeatures:          "Features",
		KeyNoDefaultFeatures: "Sem features padrão",
		KeyAllFeatures:       "Todas as features",
		KeyPackageSpec:       "Pacotes (-p)",
		KeyRelease:           "Release",
		KeyOffline:           "Offline",
		KeyMaxParallel:       "Máx. ações paralelas",
		KeyShowSuccess:       "Mostrar diálogo quando uma ação terminar",
		KeyCompileSection:    "Opções de Compilação",
		KeyInterfaceSection:  "Interface",
		KeySettingsSaved:     "Opções salvas",
		KeyActionFailed:      "Falha ao executar %s",
		KeyActionSucceeded:   "Concluído: %s",
		KeyAlreadyRunning:    "Esta ação já está em execução para o pacote",
		KeyNoPackage:         "Abra um pacote primeiro",
		KeyManifestError:     "Não foi possível ler o Cargo.toml",
		KeyDocsNotBuilt:      "A documentação ainda não foi gerada. Execute Documentação primeiro.",
		KeyErrorOpeningFile:  "Erro ao abrir arquivo",
		KeyPleaseEnterPath:   "Por favor, escolha uma pasta",
		KeyJobQueued:         "Na fila: %s",
	}
}
